package objectstorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/internal"
)

var (
	jpegData = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46, 0x49, 0x46, 0x00, 0x01}
	pngData  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
)

// memoryUploader keeps the uploaded objects in memory.
type memoryUploader struct {
	mu      sync.Mutex
	objects map[string]*s3.PutObjectInput
	data    map[string][]byte
	calls   int
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string]*s3.PutObjectInput{}, data: map[string][]byte{}}
}

func (m *memoryUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader),
) (*manager.UploadOutput, error) {
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	key := aws.ToString(input.Key)
	m.objects[key] = input
	m.data[key] = body
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestNew(t *testing.T) {
	c := qt.New(t)

	_, err := NewWithUploader(nil, newMemoryUploader())
	c.Assert(err, qt.IsNotNil)
	_, err = NewWithUploader(&Config{}, newMemoryUploader())
	c.Assert(err, qt.IsNotNil)
	_, err = NewWithUploader(&Config{Bucket: "media"}, nil)
	c.Assert(err, qt.IsNotNil)

	client, err := NewWithUploader(&Config{Bucket: "media", Region: "eu-west-1"}, newMemoryUploader())
	c.Assert(err, qt.IsNil)
	c.Assert(client.baseURL, qt.Equals, "https://media.s3.eu-west-1.amazonaws.com")
	c.Assert(client.supportedTypes, qt.DeepEquals, DefaultSupportedFileTypes())
	c.Assert(client.maxSize, qt.Equals, int64(DefaultMaxSize))

	client, err = NewWithUploader(&Config{Bucket: "media", Endpoint: "http://minio:9000/"}, newMemoryUploader())
	c.Assert(err, qt.IsNil)
	c.Assert(client.baseURL, qt.Equals, "http://minio:9000/media")

	client, err = NewWithUploader(&Config{Bucket: "media", PublicURL: "https://cdn.example.org/"},
		newMemoryUploader())
	c.Assert(err, qt.IsNil)
	c.Assert(client.baseURL, qt.Equals, "https://cdn.example.org")
}

func TestPut(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	uploader := newMemoryUploader()
	client, err := NewWithUploader(&Config{
		Bucket:    "media",
		PublicURL: "https://cdn.example.org",
		MaxSize:   64,
	}, uploader)
	c.Assert(err, qt.IsNil)

	url, err := client.Put(ctx, bytes.NewReader(jpegData), KindPost, "owner-1")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasPrefix(url, "https://cdn.example.org/posts/"), qt.IsTrue)
	c.Assert(strings.HasSuffix(url, ".jpg"), qt.IsTrue)
	key := strings.TrimPrefix(url, "https://cdn.example.org/")
	c.Assert(aws.ToString(uploader.objects[key].ContentType), qt.Equals, "image/jpeg")
	c.Assert(uploader.objects[key].Metadata["owner"], qt.Equals, "owner-1")
	c.Assert(uploader.data[key], qt.DeepEquals, jpegData)

	// the same content is uploaded once
	again, err := client.Put(ctx, bytes.NewReader(jpegData), KindPost, "owner-2")
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, url)
	c.Assert(uploader.calls, qt.Equals, 1)

	logo, err := client.Put(ctx, bytes.NewReader(pngData), KindOrganization, "owner-1")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasSuffix(logo, ".png"), qt.IsTrue)
	c.Assert(strings.Contains(logo, "/organizations/"), qt.IsTrue)

	_, err = client.Put(ctx, bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03}), KindPost, "owner-1")
	c.Assert(err, qt.Equals, ErrorFileTypeNotSupported)
	_, err = client.Put(ctx, bytes.NewReader([]byte("GIF89a......")), KindPost, "owner-1")
	c.Assert(err, qt.Equals, ErrorFileTypeNotSupported)
	_, err = client.Put(ctx, bytes.NewReader(nil), KindPost, "owner-1")
	c.Assert(err, qt.Equals, ErrorEmptyObject)
	_, err = client.Put(ctx, bytes.NewReader(append(jpegData, make([]byte, 64)...)), KindPost, "owner-1")
	c.Assert(err, qt.Equals, ErrorObjectTooLarge)
	_, err = client.Put(ctx, bytes.NewReader(jpegData), ObjectKind("avatars"), "owner-1")
	c.Assert(err, qt.Equals, ErrorInvalidKind)
}

func multipartRequest(c *qt.C, kind string, files map[string][]byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if kind != "" {
		c.Assert(writer.WriteField("kind", kind), qt.IsNil)
	}
	for name, data := range files {
		part, err := writer.CreateFormFile("file", name)
		c.Assert(err, qt.IsNil)
		_, err = part.Write(data)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(writer.Close(), qt.IsNil)
	req := httptest.NewRequest(http.MethodPost, "/api/storage", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadImageWithFormHandler(t *testing.T) {
	c := qt.New(t)
	client, err := NewWithUploader(&Config{Bucket: "media", PublicURL: "https://cdn.example.org"},
		newMemoryUploader())
	c.Assert(err, qt.IsNil)
	user := &db.User{ID: internal.NewObjectID(), Email: "user@example.com"}

	// unauthenticated
	w := httptest.NewRecorder()
	client.UploadImageWithFormHandler(w, multipartRequest(c, "", map[string][]byte{"a.jpg": jpegData}))
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)

	authenticated := func(req *http.Request) *http.Request {
		return req.WithContext(apicommon.ContextWithUser(req.Context(), user))
	}

	w = httptest.NewRecorder()
	client.UploadImageWithFormHandler(w, authenticated(multipartRequest(c, "campaigns",
		map[string][]byte{"a.jpg": jpegData, "b.png": pngData})))
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("%s", w.Body.String()))
	c.Assert(strings.Count(w.Body.String(), "https://cdn.example.org/campaigns/"), qt.Equals, 2)

	w = httptest.NewRecorder()
	client.UploadImageWithFormHandler(w, authenticated(multipartRequest(c, "",
		map[string][]byte{"a.txt": []byte("plain text")})))
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = httptest.NewRecorder()
	client.UploadImageWithFormHandler(w, authenticated(multipartRequest(c, "avatars",
		map[string][]byte{"a.jpg": jpegData})))
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = httptest.NewRecorder()
	client.UploadImageWithFormHandler(w, authenticated(multipartRequest(c, "posts", nil)))
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest, qt.Commentf(fmt.Sprint(w.Body.String())))
}
