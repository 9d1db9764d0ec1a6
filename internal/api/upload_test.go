package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func (e *testEnv) doUpload(t *testing.T, token, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUploadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "xena@example.com", "Xena")

	w := env.doUpload(t, token, "dinner.png", pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		OK   bool   `json:"ok"`
		Path string `json:"path"`
		Size int64  `json:"size"`
		Mime string `json:"mime"`
	}
	decodeJSON(t, w, &resp)
	assert.True(t, resp.OK)
	assert.Equal(t, "image/png", resp.Mime)
	assert.EqualValues(t, len(pngBytes), resp.Size)

	// The stored file is served back at its returned path.
	req := httptest.NewRequest(http.MethodGet, resp.Path, nil)
	served := httptest.NewRecorder()
	env.router.ServeHTTP(served, req)
	assert.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, pngBytes, served.Body.Bytes())
}

func TestUploadRejections(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "yuri@example.com", "Yuri")

	w := env.doUpload(t, "", "dinner.png", pngBytes)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doUpload(t, token, "script.png", []byte("#!/bin/sh\necho nope"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A request without a file part at all.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
