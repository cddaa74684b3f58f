package upload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tech-radar/internal/metrics"
	"tech-radar/internal/objectstore"
)

// KeyPrefix is where uploaded originals are stored.
const KeyPrefix = "uploads/"

const (
	defaultFileName = "upload"
	timeLayout      = "2006-01-02T15:04:05.000Z07:00"
)

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

// extPattern matches a trailing extension within the last path segment.
var extPattern = regexp.MustCompile(`\.[^/\\.]+$`)

var separators = strings.NewReplacer("/", "_", `\`, "_")

var validate = validator.New()

// Request is a transport-neutral upload request.
type Request struct {
	Method string
	Header http.Header
	Query  url.Values
	Body   string
	// IsBase64Encoded marks a raw base64 file body. Otherwise Body is the JSON envelope.
	IsBase64Encoded bool
}

// Response is what the transport writes back.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

type jsonPayload struct {
	FileData    string `json:"fileData" validate:"required"`
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType"`
}

type successBody struct {
	Message     string `json:"message"`
	FileName    string `json:"fileName"`
	S3Key       string `json:"s3Key"`
	Size        int    `json:"size"`
	ContentType string `json:"contentType"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type notAllowedBody struct {
	Error        string   `json:"error"`
	AllowedTypes []string `json:"allowedTypes"`
	ReceivedType string   `json:"receivedType"`
}

type tooLargeBody struct {
	Error   string `json:"error"`
	MaxSize int64  `json:"maxSize"`
}

type file struct {
	data        []byte
	name        string
	contentType string
}

// Config configures the upload Service.
type Config struct {
	Bucket  string
	MaxSize int64
}

// Service validates uploads and writes them to the object store.
type Service struct {
	store   objectstore.Store
	cfg     Config
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(store objectstore.Store, cfg Config, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, cfg: cfg, log: log, metrics: m, now: time.Now}
}

// Handle runs one upload request to completion. It never returns an error:
// every failure becomes a 4xx or 500 response.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case http.MethodOptions:
		return Response{StatusCode: http.StatusOK, Headers: headers()}
	case http.MethodPost:
	default:
		return s.reject(http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	}

	if req.Body == "" {
		return s.reject(http.StatusBadRequest, errorBody{Error: "No file data provided"})
	}
	if s.cfg.Bucket == "" {
		return s.fail(fmt.Errorf("S3_BUCKET_NAME environment variable not set"))
	}

	f, rejected := decode(req)
	if rejected != nil {
		s.metrics.RecordUpload(metrics.UploadRejected, 0)
		return *rejected
	}

	ext, ok := Extension(f.contentType)
	if !ok {
		return s.reject(http.StatusBadRequest, notAllowedBody{
			Error:        "File type not allowed",
			AllowedTypes: AllowedContentTypes(),
			ReceivedType: f.contentType,
		})
	}
	if s.cfg.MaxSize > 0 && int64(len(f.data)) > s.cfg.MaxSize {
		return s.TooLarge()
	}

	now := s.now()
	uniqueName := fmt.Sprintf("%d-%s", now.UnixMilli(), NormalizeFileName(f.name, ext))
	key := KeyPrefix + uniqueName

	err := s.store.Put(ctx, s.cfg.Bucket, key, objectstore.Object{
		Body:        f.data,
		ContentType: f.contentType,
		Metadata: map[string]string{
			"originalName": f.name,
			"uploadedAt":   now.UTC().Format(timeLayout),
		},
	})
	if err != nil {
		return s.fail(err)
	}

	s.log.Info("file uploaded successfully", "key", key, "size", len(f.data), "content_type", f.contentType)
	s.metrics.RecordUpload(metrics.UploadStored, len(f.data))
	return respond(http.StatusOK, successBody{
		Message:     "File uploaded successfully",
		FileName:    uniqueName,
		S3Key:       key,
		Size:        len(f.data),
		ContentType: f.contentType,
	})
}

// TooLarge is the rejection for bodies over the configured limit.
func (s *Service) TooLarge() Response {
	return s.reject(http.StatusBadRequest, tooLargeBody{Error: "File too large", MaxSize: s.cfg.MaxSize})
}

// NormalizeFileName forces name to end in ext, replacing any other extension.
// Path separators are flattened so the name stays a single key segment.
func NormalizeFileName(name, ext string) string {
	if !strings.HasSuffix(name, ext) {
		name = extPattern.ReplaceAllString(name, "") + ext
	}
	return separators.Replace(name)
}

func decode(req Request) (file, *Response) {
	if req.IsBase64Encoded {
		data, err := decodeBase64(req.Body)
		if err != nil {
			return file{}, badRequest("Invalid base64 file data")
		}
		name := req.Query.Get("filename")
		if name == "" {
			name = req.Header.Get("X-Filename")
		}
		if name == "" {
			name = defaultFileName
		}
		return file{data: data, name: name, contentType: mediaType(req.Header.Get("Content-Type"))}, nil
	}

	var payload jsonPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return file{}, badRequest("Invalid JSON in request body")
	}
	if err := validate.Struct(&payload); err != nil {
		return file{}, badRequest("Missing fileData or fileName in request body")
	}
	data, err := decodeBase64(payload.FileData)
	if err != nil {
		return file{}, badRequest("Invalid base64 in fileData")
	}
	return file{data: data, name: payload.FileName, contentType: mediaType(payload.ContentType)}, nil
}

// decodeBase64 accepts padded and unpadded, standard and URL-safe alphabets.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		var data []byte
		if data, err = enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, err
}

// mediaType drops parameters such as charset and lowercases the type.
// Unparseable values are returned unchanged and fail the allow-list.
func mediaType(contentType string) string {
	if contentType == "" {
		return objectstore.DefaultContentType
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}

func (s *Service) reject(status int, body any) Response {
	s.metrics.RecordUpload(metrics.UploadRejected, 0)
	return respond(status, body)
}

func (s *Service) fail(err error) Response {
	s.log.Error("upload error", "err", err)
	s.metrics.RecordUpload(metrics.UploadFailed, 0)
	return respond(http.StatusInternalServerError, errorBody{Error: "Internal server error", Message: err.Error()})
}

func badRequest(msg string) *Response {
	resp := respond(http.StatusBadRequest, errorBody{Error: msg})
	return &resp
}

func respond(status int, body any) Response {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"Internal server error"}`)
	}
	return Response{StatusCode: status, Headers: headers(), Body: data}
}

func headers() map[string]string {
	h := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		h[k] = v
	}
	return h
}
