package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// Request describes one API call. It is a value: the client never mutates it,
// so a request can be replayed after a token refresh.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string
	// Public requests are sent without a bearer token and never trigger a refresh.
	Public bool
}

// Field is a plain multipart form field.
type Field struct {
	Name  string
	Value string
}

// FilePart is a file attached to a multipart request.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Get builds a GET request.
func Get(path string, query url.Values) Request {
	return Request{Method: http.MethodGet, Path: path, Query: query}
}

// Post builds a POST request without a body.
func Post(path string) Request {
	return Request{Method: http.MethodPost, Path: path}
}

// Delete builds a DELETE request.
func Delete(path string) Request {
	return Request{Method: http.MethodDelete, Path: path}
}

// JSON builds a request carrying v as a JSON body.
func JSON(method, path string, v interface{}) (Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Request{}, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
	}
	return Request{
		Method:      method,
		Path:        path,
		Body:        body,
		ContentType: "application/json",
	}, nil
}

// Multipart builds a multipart/form-data request. Fields keep their order.
func Multipart(method, path string, fields []Field, file *FilePart) (Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return Request{}, fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}

	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		if file.ContentType != "" {
			h.Set("Content-Type", file.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return Request{}, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return Request{}, fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return Request{}, fmt.Errorf("failed to close multipart body: %w", err)
	}

	return Request{
		Method:      method,
		Path:        path,
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
	}, nil
}

// AsPublic returns a copy of r that is sent without credentials.
func (r Request) AsPublic() Request {
	r.Public = true
	return r
}
