package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"tamvems/internal/entities"
	"tamvems/internal/httperr"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError renders structured errors from the service layer and hides
// everything else behind a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var herr *httperr.Error
	if errors.As(err, &herr) {
		writeJSON(w, herr.Status, herr)
		return
	}
	writeJSON(w, http.StatusInternalServerError, httperr.Internal())
}

// readUpload drains one multipart file into memory. Returns nil when the
// field is absent so callers can decide whether it was mandatory.
func readUpload(r *http.Request, field string) (*entities.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, httperr.Validation(field, "invalid file upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, 1+int64(maxMultipartMemory)))
	if err != nil {
		return nil, httperr.Validation(field, "could not read file")
	}

	return &entities.Upload{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func contentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}
