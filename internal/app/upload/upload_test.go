package upload

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/campushub/internal/app/backend"
)

type fakeStore struct {
	presigns []string
	puts     int
	failPuts int
	putErr   error
	deleted  []string
}

func (f *fakeStore) Presign(ctx context.Context, name, typ string) (backend.Presigned, error) {
	f.presigns = append(f.presigns, name)
	return backend.Presigned{UploadURL: "https://bucket.example/put", Key: name}, nil
}

func (f *fakeStore) PutObject(ctx context.Context, url, typ string, data []byte) error {
	f.puts++
	if f.puts <= f.failPuts {
		if f.putErr != nil {
			return f.putErr
		}
		return errors.New("connection reset")
	}
	return nil
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

// multipartFile builds a FileHeader the way net/http would for a form post.
func multipartFile(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		size    int64
		sniffed string
		want    error
	}{
		{"pdf ok", PDFRule, 1 << 20, "application/pdf", nil},
		{"pdf at limit", PDFRule, 10 << 20, "application/pdf", nil},
		{"pdf too large", PDFRule, 10<<20 + 1, "application/pdf", ErrTooLarge},
		{"pdf wrong type", PDFRule, 100, "image/png", ErrType},
		{"image ok", ImageRule, 100, "image/jpeg", nil},
		{"image too large", ImageRule, 5<<20 + 1, "image/png", ErrTooLarge},
		{"image wrong type", ImageRule, 100, "application/pdf", ErrType},
		{"empty", ImageRule, 0, "", ErrNoFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.rule, tt.size, tt.sniffed)
			if tt.want == nil && err != nil {
				t.Fatalf("Check() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Check() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadSniffsContent(t *testing.T) {
	// A text file renamed to .pdf must be rejected.
	fh := multipartFile(t, "notes.pdf", []byte("just some text, not a pdf"))
	if _, err := Read(fh, PDFRule); !errors.Is(err, ErrType) {
		t.Fatalf("Read(text as pdf) = %v, want ErrType", err)
	}

	fh = multipartFile(t, "notes.pdf", pdfBytes)
	f, err := Read(fh, PDFRule)
	if err != nil {
		t.Fatalf("Read(pdf): %v", err)
	}
	if f.ContentType != "application/pdf" || f.Name != "notes.pdf" {
		t.Errorf("file = %q %q", f.Name, f.ContentType)
	}
}

func TestNonPDFRejectedBeforePresign(t *testing.T) {
	store := &fakeStore{}
	fh := multipartFile(t, "photo.pdf", []byte("\x89PNG\r\n\x1a\n0000000000000000"))
	if _, err := Read(fh, PDFRule); err == nil {
		t.Fatal("Read accepted a PNG as a PDF")
	}
	if len(store.presigns) != 0 {
		t.Errorf("presign requests = %d, want 0", len(store.presigns))
	}
}

func TestUpload_RetriesPut(t *testing.T) {
	store := &fakeStore{failPuts: 2}
	u := &Uploader{Store: store, CDNBase: "https://cdn.example/", Backoff: 1}

	up, err := u.Upload(context.Background(), "notes", File{Name: "Unit 1 (final).pdf", ContentType: "application/pdf", Data: pdfBytes})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if store.puts != 3 {
		t.Errorf("puts = %d, want 3", store.puts)
	}
	if !strings.HasPrefix(up.Key, "notes/") || !strings.HasSuffix(up.Key, "-Unit-1-final-.pdf") {
		t.Errorf("key = %q", up.Key)
	}
	if up.PublicURL != "https://cdn.example/"+up.Key {
		t.Errorf("public url = %q", up.PublicURL)
	}
}

func TestUpload_GivesUpAfterAttempts(t *testing.T) {
	store := &fakeStore{failPuts: 10}
	u := &Uploader{Store: store, PutAttempts: 2, Backoff: 1}

	if _, err := u.Upload(context.Background(), "notes", File{Name: "a.pdf", Data: pdfBytes}); err == nil {
		t.Fatal("Upload succeeded, want error")
	}
	if store.puts != 2 {
		t.Errorf("puts = %d, want 2", store.puts)
	}
}

func TestUpload_NoRetryOnClientError(t *testing.T) {
	store := &fakeStore{failPuts: 10, putErr: &backend.APIError{Status: http.StatusForbidden}}
	u := &Uploader{Store: store, Backoff: 1}

	if _, err := u.Upload(context.Background(), "store", File{Name: "a.png", Data: []byte("x")}); err == nil {
		t.Fatal("Upload succeeded, want error")
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1", store.puts)
	}
}

func TestDiscard(t *testing.T) {
	store := &fakeStore{}
	u := &Uploader{Store: store, CDNBase: "https://cdn.example"}
	up, err := u.Upload(context.Background(), "seniors", File{Name: "me.jpg", Data: []byte("x")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	up.Discard(context.Background())
	if len(store.deleted) != 1 || store.deleted[0] != up.Key {
		t.Errorf("deleted = %v, want [%s]", store.deleted, up.Key)
	}

	Uploaded{}.Discard(context.Background()) // no store: no-op
}

func TestStored(t *testing.T) {
	store := &fakeStore{}
	u := &Uploader{Store: store, CDNBase: "https://cdn.example/"}

	prev, ok := u.Stored("https://cdn.example/notes/old.pdf")
	if !ok || prev.Key != "notes/old.pdf" {
		t.Fatalf("Stored = %+v, %v; want key notes/old.pdf", prev, ok)
	}
	prev.Discard(context.Background())
	if len(store.deleted) != 1 || store.deleted[0] != "notes/old.pdf" {
		t.Errorf("deleted = %v, want [notes/old.pdf]", store.deleted)
	}

	for _, url := range []string{"", "https://elsewhere.example/a.pdf", "https://cdn.example/"} {
		if _, ok := u.Stored(url); ok {
			t.Errorf("Stored(%q) = true, want false", url)
		}
	}
}

func TestObjectName(t *testing.T) {
	got := ObjectName("/pyqs/", `C:\Users\me\DBMS 2023.pdf`)
	if !strings.HasPrefix(got, "pyqs/") || !strings.HasSuffix(got, "-DBMS-2023.pdf") {
		t.Errorf("ObjectName = %q", got)
	}
	if got := ObjectName("", "???"); !strings.HasSuffix(got, "-file") {
		t.Errorf("ObjectName(blank) = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Check(PDFRule, 11<<20, "application/pdf")); got != "PDF must be 10 MB or smaller." {
		t.Errorf("too large message = %q", got)
	}
	if got := UserMessage(Check(ImageRule, 10, "text/plain")); got != "Please choose a valid image file." {
		t.Errorf("type message = %q", got)
	}
}
