package blob

import (
	"context"
	"testing"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"fs":     fsStore,
	}
}

func TestUploadFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ref, err := store.Upload(ctx, []byte("portrait"), "image/png")
			if err != nil {
				t.Fatalf("upload: %v", err)
			}
			data, contentType, err := store.Fetch(ctx, ref)
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if string(data) != "portrait" || contentType != "image/png" {
				t.Fatalf("got %q/%q", data, contentType)
			}
		})
	}
}

func TestReplaceRequiresExisting(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Replace(ctx, "missing", []byte("x"), "image/png"); err == nil {
				t.Fatal("replace of a missing blob must fail")
			}
			ref, _ := store.Upload(ctx, []byte("v1"), "image/png")
			if err := store.Replace(ctx, ref, []byte("v2"), "image/jpeg"); err != nil {
				t.Fatalf("replace: %v", err)
			}
			data, contentType, _ := store.Fetch(ctx, ref)
			if string(data) != "v2" || contentType != "image/jpeg" {
				t.Fatalf("got %q/%q after replace", data, contentType)
			}
		})
	}
}

func TestDeleteRemoves(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ref, _ := store.Upload(ctx, []byte("gone"), "")
			if err := store.Delete(ctx, ref); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, _, err := store.Fetch(ctx, ref); err == nil {
				t.Fatal("fetch after delete must fail")
			}
			if err := store.Delete(ctx, ref); err == nil {
				t.Fatal("second delete must fail")
			}
		})
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	if _, _, err := store.Fetch(context.Background(), "../escape"); err == nil {
		t.Fatal("traversal reference must be rejected")
	}
}

func TestFactoryDefaultsToMemory(t *testing.T) {
	store, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("driver = %s, want memory", store.Driver())
	}
	if _, err := New(context.Background(), Config{Driver: "tape"}); err == nil {
		t.Fatal("unknown driver must be rejected")
	}
}
