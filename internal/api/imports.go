package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"trade-journal/internal/importer"
	"trade-journal/internal/mapping"
)

const multipartMemory = 8 << 20

// uploadedFile pulls the "file" part out of a multipart request.
func uploadedFile(r *http.Request) (string, io.ReadCloser, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return "", nil, err
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	return hdr.Filename, f, nil
}

func (s *Server) previewImport(w http.ResponseWriter, r *http.Request) {
	name, f, err := uploadedFile(r)
	if err != nil {
		badRequest(w, r, "multipart field \"file\" is required")
		return
	}
	defer f.Close()

	preview, err := importer.ReadFile(name, f, s.opts.MaxFileBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, preview)
}

type importResponse struct {
	*importer.ImportOutcome
	Mapping mapping.ColumnMapping `json:"mapping"`
}

// runImport accepts an optional "mapping" form field: a JSON array of
// target names by column index, where "" keeps the proposed target.
func (s *Server) runImport(w http.ResponseWriter, r *http.Request) {
	name, f, err := uploadedFile(r)
	if err != nil {
		badRequest(w, r, "multipart field \"file\" is required")
		return
	}
	defer f.Close()

	var overrides []string
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			badRequest(w, r, "mapping must be a JSON array of field names")
			return
		}
	}

	outcome, preview, err := s.importer.ImportFile(r.Context(), ownerFrom(r), name, f, s.opts.MaxFileBytes, overrides)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, importResponse{ImportOutcome: outcome, Mapping: preview.Mapping})
}
