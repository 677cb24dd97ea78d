package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"tamvems/internal/httperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorStructured(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, httperr.Conflict(httperr.CodeQuotaExceeded, "daily request quota for the division reached"))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, httperr.CodeQuotaExceeded, body["code"])
	assert.Equal(t, "daily request quota for the division reached", body["error"])
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestReadUpload(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", "letter.pdf")
	require.NoError(t, err)
	fw.Write([]byte("%PDF-1.7 test"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/bookings", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(maxMultipartMemory))

	up, err := readUpload(req, "document")
	require.NoError(t, err)
	require.NotNil(t, up)
	assert.Equal(t, "letter.pdf", up.Filename)
	assert.Equal(t, int64(len("%PDF-1.7 test")), up.Size)

	missing, err := readUpload(req, "photo")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
