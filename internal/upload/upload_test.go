package upload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tech-radar/internal/logger"
	"tech-radar/internal/objectstore"
)

const testBucket = "radar-uploads"

var fixedNow = time.UnixMilli(1730000000123)

func newTestService(st objectstore.Store) *Service {
	svc := NewService(st, Config{Bucket: testBucket, MaxSize: 1024}, logger.Discard(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func decodeResponse(t *testing.T, resp Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	return body
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		req        Request
		setup      func(*objectstore.MockStore)
		wantStatus int
		check      func(*testing.T, map[string]any)
	}{
		{
			name:       "preflight",
			req:        Request{Method: http.MethodOptions},
			wantStatus: http.StatusOK,
		},
		{
			name:       "method not allowed",
			req:        Request{Method: http.MethodGet},
			wantStatus: http.StatusMethodNotAllowed,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Method not allowed", body["error"])
			},
		},
		{
			name:       "empty body",
			req:        Request{Method: http.MethodPost},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "No file data provided", body["error"])
			},
		},
		{
			name:       "malformed json",
			req:        Request{Method: http.MethodPost, Body: "{not json"},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Invalid JSON in request body", body["error"])
			},
		},
		{
			name:       "json missing fileName",
			req:        Request{Method: http.MethodPost, Body: `{"fileData":"YWJj"}`},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Missing fileData or fileName in request body", body["error"])
			},
		},
		{
			name:       "json without content type defaults to octet-stream and is rejected",
			req:        Request{Method: http.MethodPost, Body: `{"fileData":"YWJj","fileName":"a.bin"}`},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "File type not allowed", body["error"])
				assert.Equal(t, "application/octet-stream", body["receivedType"])
				assert.Len(t, body["allowedTypes"], len(AllowedTypes))
			},
		},
		{
			name:       "raw body with bad base64",
			req:        Request{Method: http.MethodPost, Body: "!!!", IsBase64Encoded: true},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "too large",
			req: Request{Method: http.MethodPost, Body: jsonBody(t, map[string]string{
				"fileData": base64.StdEncoding.EncodeToString(make([]byte, 2048)), "fileName": "big.txt", "contentType": "text/plain",
			})},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "File too large", body["error"])
			},
		},
		{
			name: "json upload",
			req: Request{Method: http.MethodPost, Body: jsonBody(t, map[string]string{
				"fileData": b64("a b c"), "fileName": "notes.text", "contentType": "text/plain",
			})},
			setup: func(s *objectstore.MockStore) {
				s.On("Put", mock.Anything, testBucket, "uploads/1730000000123-notes.txt", mock.MatchedBy(func(o objectstore.Object) bool {
					return string(o.Body) == "a b c" &&
						o.ContentType == "text/plain" &&
						o.Metadata["originalName"] == "notes.text" &&
						o.Metadata["uploadedAt"] == "2024-10-27T03:33:20.123Z"
				})).Return(nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "File uploaded successfully", body["message"])
				assert.Equal(t, "1730000000123-notes.txt", body["fileName"])
				assert.Equal(t, "uploads/1730000000123-notes.txt", body["s3Key"])
				assert.EqualValues(t, 5, body["size"])
				assert.Equal(t, "text/plain", body["contentType"])
			},
		},
		{
			name: "raw upload takes filename from query before header",
			req: Request{
				Method:          http.MethodPost,
				Body:            b64("%PDF-1.4"),
				IsBase64Encoded: true,
				Header:          http.Header{"Content-Type": {"application/pdf"}, "X-Filename": {"header.pdf"}},
				Query:           url.Values{"filename": {"deck"}},
			},
			setup: func(s *objectstore.MockStore) {
				s.On("Put", mock.Anything, testBucket, "uploads/1730000000123-deck.pdf", mock.Anything).Return(nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "raw upload falls back to default filename",
			req: Request{
				Method:          http.MethodPost,
				Body:            b64("col\n1"),
				IsBase64Encoded: true,
				Header:          http.Header{"Content-Type": {"text/csv; charset=utf-8"}},
			},
			setup: func(s *objectstore.MockStore) {
				s.On("Put", mock.Anything, testBucket, "uploads/1730000000123-upload.csv", mock.MatchedBy(func(o objectstore.Object) bool {
					return o.ContentType == "text/csv"
				})).Return(nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "store failure",
			req: Request{Method: http.MethodPost, Body: jsonBody(t, map[string]string{
				"fileData": b64("x"), "fileName": "a.md", "contentType": "text/markdown",
			})},
			setup: func(s *objectstore.MockStore) {
				s.On("Put", mock.Anything, testBucket, "uploads/1730000000123-a.md", mock.Anything).Return(errors.New("AccessDenied")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Internal server error", body["error"])
				assert.Contains(t, body["message"], "AccessDenied")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(objectstore.MockStore)
			if tt.setup != nil {
				tt.setup(st)
			}

			resp := newTestService(st).Handle(context.Background(), tt.req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode, string(resp.Body))
			assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
			assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
			assert.Equal(t, "Content-Type, Authorization", resp.Headers["Access-Control-Allow-Headers"])
			if tt.check != nil {
				tt.check(t, decodeResponse(t, resp))
			}
			// Put is only expected where setup declared it.
			st.AssertExpectations(t)
		})
	}
}

func TestHandleMissingBucket(t *testing.T) {
	st := new(objectstore.MockStore)
	svc := NewService(st, Config{}, logger.Discard(), nil)

	resp := svc.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"fileData":"YQ==","fileName":"a.txt","contentType":"text/plain"}`})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decodeResponse(t, resp)["message"], "S3_BUCKET_NAME")
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisallowedTypeNeverWrites(t *testing.T) {
	for _, ct := range []string{"image/png", "application/zip", "text/html", "application/json", ""} {
		t.Run(ct, func(t *testing.T) {
			st := objectstore.NewMemoryStore()
			resp := newTestService(st).Handle(context.Background(), Request{
				Method:          http.MethodPost,
				Body:            b64("payload"),
				IsBase64Encoded: true,
				Header:          http.Header{"Content-Type": {ct}},
			})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Empty(t, st.Keys(testBucket))
		})
	}
}

func TestAcceptedKeyShape(t *testing.T) {
	names := []string{"report", "report.pdf", "report.final.docx", "notes.md", "a/b\\c.txt", ".hidden"}
	for _, ft := range AllowedTypes {
		for _, name := range names {
			st := objectstore.NewMemoryStore()
			svc := NewService(st, Config{Bucket: testBucket}, logger.Discard(), nil)
			resp := svc.Handle(context.Background(), Request{Method: http.MethodPost, Body: jsonBody(t, map[string]string{
				"fileData": b64("x"), "fileName": name, "contentType": ft.ContentType,
			})})
			require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

			key := decodeResponse(t, resp)["s3Key"].(string)
			pattern := regexp.MustCompile(`^uploads/\d+-[^/]*` + regexp.QuoteMeta(ft.Extension) + `$`)
			assert.Regexp(t, pattern, key, "content type %s, name %q", ft.ContentType, name)
			assert.Equal(t, []string{key}, st.Keys(testBucket))
		}
	}
}

func TestNormalizeFileName(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"report.pdf", ".pdf", "report.pdf"},
		{"report", ".pdf", "report.pdf"},
		{"report.doc", ".docx", "report.docx"},
		{"archive.tar.gz", ".txt", "archive.tar.txt"},
		{"notes.markdown", ".md", "notes.md"},
		{"dir/report.pdf", ".pdf", "dir_report.pdf"},
		{`dir\report`, ".csv", "dir_report.csv"},
		{"v1.2/notes", ".txt", "v1.2_notes.txt"},
		{`C:\docs.old\report`, ".doc", "C:_docs.old_report.doc"},
		{"v1.2/notes.md", ".txt", "v1.2_notes.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFileName(tt.name, tt.ext))
		})
	}
}

func TestExtension(t *testing.T) {
	ext, ok := Extension("application/vnd.openxmlformats-officedocument.presentationml.presentation")
	assert.True(t, ok)
	assert.Equal(t, ".pptx", ext)

	_, ok = Extension("image/png")
	assert.False(t, ok)

	assert.Len(t, AllowedContentTypes(), 12)
	assert.Equal(t, "application/pdf", AllowedContentTypes()[0])
}
