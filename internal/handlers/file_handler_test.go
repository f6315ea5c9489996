package handlers_test

import (
	"Niquel/internal/model"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// multipartUpload собирает multipart-тело с файлом и полями формы.
func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	_, _ = io.WriteString(fw, content)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()
	return buf, mw.FormDataContentType()
}

func TestFiles_UploadAndDownload(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", model.RoleRegular)
	project := env.seedProject(t, "Cuenca", owner.ID)

	body, contentType := multipartUpload(t, "informe.pdf", "contenido del informe", map[string]string{
		"category":   model.FileCategoryDocument,
		"project_id": project.ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/files", body)
	req.Header.Set("Content-Type", contentType)
	addAuth(t, req, owner.ID)
	rr := env.do(req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var file struct {
		ID          string `json:"id"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
	}
	_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&file)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, int64(len("contenido del informe")), file.Size)

	req = httptest.NewRequest(http.MethodGet, "/api/files/"+file.ID+"/download", nil)
	addAuth(t, req, owner.ID)
	rr = env.do(req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "contenido del informe", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "informe.pdf")
}

func TestFiles_UploadInvalidCategoryLeavesNoArtifacts(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", model.RoleRegular)
	project := env.seedProject(t, "Cuenca", owner.ID)

	body, contentType := multipartUpload(t, "datos.csv", "datos", map[string]string{
		"category":   "spreadsheet",
		"project_id": project.ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/files", body)
	req.Header.Set("Content-Type", contentType)
	addAuth(t, req, owner.ID)
	rr := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var count int64
	env.db.Model(&model.File{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestFiles_UploadWithoutTarget(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", model.RoleRegular)

	body, contentType := multipartUpload(t, "suelto.pdf", "x", map[string]string{
		"category": model.FileCategoryDocument,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/files", body)
	req.Header.Set("Content-Type", contentType)
	addAuth(t, req, owner.ID)
	assert.Equal(t, http.StatusBadRequest, env.do(req).Code)
}

func TestFiles_ViewerCannotUpload(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", model.RoleRegular)
	viewer := env.seedUser(t, "viewer@example.com", model.RoleRegular)
	project := env.seedProject(t, "Cuenca", owner.ID)
	env.assign(t, viewer.ID, project.ID, model.AssignmentRoleViewer)

	body, contentType := multipartUpload(t, "x.pdf", "x", map[string]string{
		"category":   model.FileCategoryDocument,
		"project_id": project.ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/files", body)
	req.Header.Set("Content-Type", contentType)
	addAuth(t, req, viewer.ID)
	assert.Equal(t, http.StatusForbidden, env.do(req).Code)
}

func TestFiles_DeleteRemovesRowAndDisk(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", model.RoleRegular)
	project := env.seedProject(t, "Cuenca", owner.ID)

	body, contentType := multipartUpload(t, "borrar.pdf", "x", map[string]string{
		"category":   model.FileCategoryDocument,
		"project_id": project.ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/files", body)
	req.Header.Set("Content-Type", contentType)
	addAuth(t, req, owner.ID)
	rr := env.do(req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		ID   string `json:"id"`
		Path string `json:"path"`
	}
	_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&created)

	req = httptest.NewRequest(http.MethodDelete, "/api/files/"+created.ID, nil)
	addAuth(t, req, owner.ID)
	assert.Equal(t, http.StatusNoContent, env.do(req).Code)

	_, err := os.Stat(filepath.Clean(created.Path))
	assert.True(t, os.IsNotExist(err))

	req = httptest.NewRequest(http.MethodGet, "/api/files/"+created.ID, nil)
	addAuth(t, req, owner.ID)
	assert.Equal(t, http.StatusNotFound, env.do(req).Code)
}
