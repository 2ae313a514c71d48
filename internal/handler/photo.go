package handler

import (
	"errors"
	"io"
	"net/http"
)

// photoField is the multipart form field carrying the upload.
const photoField = "file"

// UploadPhoto handles POST /api/records/{id}/photo. The body is
// multipart/form-data with the image in the "file" field; it replaces any
// existing photo of the record.
func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		badRequest(w, "expected a multipart/form-data body")
		return
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			invalid(w, "file is required")
			return
		}
		if err != nil {
			serviceError(w, r, badMultipart(err), recordNotFound)
			return
		}
		if part.FormName() != photoField {
			_ = part.Close()
			continue
		}

		rec, err := s.photos.Attach(r.Context(), owner(r), id, part)
		_ = part.Close()
		if err != nil {
			serviceError(w, r, err, recordNotFound)
			return
		}
		if rec.Photo == nil {
			serviceError(w, r, errors.New("attach returned a record without a photo"), recordNotFound)
			return
		}
		writeJSON(w, http.StatusOK, photoToResponse(rec.ID, *rec.Photo))
		return
	}
}

// DeletePhoto handles DELETE /api/records/{id}/photo. The file stays on disk.
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.photos.Detach(r.Context(), owner(r), id); err != nil {
		serviceError(w, r, err, recordNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// badMultipart keeps a body-size error recognisable and turns any other
// framing error into a bad request.
func badMultipart(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return malformed{err}
}

// malformed is a request the server could not parse.
type malformed struct{ error }
