package entities

// Upload is an in-memory multipart file headed for the media host.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}
