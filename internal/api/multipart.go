package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"zakatportal/pkg/types"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func createFilePart(w *multipart.Writer, field string, file types.Attachment) (io.Writer, error) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(file.FileName)))
	h.Set("Content-Type", contentType)

	return w.CreatePart(h)
}

func writeFile(w *multipart.Writer, field string, file types.Attachment) error {
	part, err := createFilePart(w, field, file)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}

	if file.Body == nil {
		return nil
	}

	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("copy %s into %s part: %w", file.FileName, field, err)
	}

	return nil
}

// encodeSubmission lays out flat fields first, then each document followed
// by its category, so documents[i] pairs with document_types[i].
func encodeSubmission(submission *types.ApplicationSubmission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range submission.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}

	for _, doc := range submission.Documents {
		if err := writeFile(w, "documents", doc.File); err != nil {
			return nil, "", err
		}
		if err := w.WriteField("document_types", doc.Category); err != nil {
			return nil, "", fmt.Errorf("write field document_types: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func encodeDocument(file types.Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := writeFile(w, "document", file); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
