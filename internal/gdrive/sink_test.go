package gdrive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/cots-conf/proposal-filer/internal/models"
)

func newTestSink(t *testing.T, handler http.HandlerFunc) *Sink {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(ts.URL), option.WithoutAuthentication())
	require.NoError(t, err)
	return NewSink(svc)
}

func TestCreateUploadsWithConversion(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotBody  string
	)
	sink := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("uploadType")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"new-doc-1"}`)
	})

	doc := models.Document{
		Name: "Ada Lovelace (id-7 type-individual)",
		HTML: "<html><body><h1>Individual/Film/Other</h1></body></html>",
	}

	id, err := sink.Create(context.Background(), "folder-a", doc)
	require.NoError(t, err)
	assert.Equal(t, "new-doc-1", id)

	assert.Equal(t, "/upload/drive/v3/files", gotPath)
	assert.Equal(t, "multipart", gotQuery)
	// The metadata part carries the name, the target folder and the Google
	// Doc type that triggers conversion; the media part carries the HTML.
	assert.Contains(t, gotBody, `"name":"Ada Lovelace (id-7 type-individual)"`)
	assert.Contains(t, gotBody, `"parents":["folder-a"]`)
	assert.Contains(t, gotBody, `"mimeType":"application/vnd.google-apps.document"`)
	assert.Contains(t, gotBody, "text/html")
	assert.Contains(t, gotBody, "<h1>Individual/Film/Other</h1>")
}

func TestCreateWrapsAPIError(t *testing.T) {
	sink := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"backend"}}`, http.StatusInternalServerError)
	})

	_, err := sink.Create(context.Background(), "folder-a", models.Document{Name: "Doc", HTML: "<p>x</p>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to create document "Doc" in folder folder-a`)
}
