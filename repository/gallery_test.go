package repository

import (
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestCreateGalleryOrdersFromZero(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	repo := NewGalleryRepository(db, store)

	g, err := repo.CreateGallery(
		TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		[]NamedFile{
			{Key: "image_0", File: fileHeader(t, "a.jpg", jpegBytes())},
			{Key: "image_1", File: fileHeader(t, "b.jpg", jpegBytes())},
			{Key: "image_2", File: fileHeader(t, "c.jpg", jpegBytes())},
		},
	)
	if err != nil {
		t.Fatalf("CreateGallery: %v", err)
	}
	defer repo.DeleteGallery(g.ID)

	got, err := repo.GetGallery(g.ID)
	if err != nil {
		t.Fatalf("GetGallery: %v", err)
	}
	if len(got.Images) != 3 {
		t.Fatalf("expected 3 images got %d", len(got.Images))
	}
	for i, img := range got.Images {
		if img.Order != i {
			t.Fatalf("image %d has order %d, want %d", i, img.Order, i)
		}
		if img.FullURL == "" {
			t.Fatalf("image %d missing full_url annotation", i)
		}
		if !store.Exists(img.ImagePath) {
			t.Fatalf("image file %s missing on disk", img.ImagePath)
		}
	}
}

func TestAddImagesAppendsAfterMaxOrder(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	repo := NewGalleryRepository(db, store)

	g, err := repo.CreateGallery(
		TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		[]NamedFile{
			{Key: "image_0", File: fileHeader(t, "a.jpg", jpegBytes())},
			{Key: "image_1", File: fileHeader(t, "b.jpg", jpegBytes())},
		},
	)
	if err != nil {
		t.Fatalf("CreateGallery: %v", err)
	}
	defer repo.DeleteGallery(g.ID)

	err = repo.AddImages(g.ID, []*multipart.FileHeader{
		fileHeader(t, "c.jpg", jpegBytes()),
		fileHeader(t, "d.jpg", jpegBytes()),
	})
	if err != nil {
		t.Fatalf("AddImages: %v", err)
	}

	got, _ := repo.GetGallery(g.ID)
	if len(got.Images) != 4 {
		t.Fatalf("expected 4 images got %d", len(got.Images))
	}
	for i, img := range got.Images {
		if img.Order != i {
			t.Fatalf("expected appended images at orders {2,3}; image %d has order %d", i, img.Order)
		}
	}
}

func TestDeleteImagesLeavesSiblings(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	repo := NewGalleryRepository(db, store)

	g, err := repo.CreateGallery(
		TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		[]NamedFile{
			{Key: "image_0", File: fileHeader(t, "a.jpg", jpegBytes())},
			{Key: "image_1", File: fileHeader(t, "b.jpg", jpegBytes())},
		},
	)
	if err != nil {
		t.Fatalf("CreateGallery: %v", err)
	}
	defer repo.DeleteGallery(g.ID)

	got, _ := repo.GetGallery(g.ID)
	victim := got.Images[0]
	survivor := got.Images[1]
	if err := repo.DeleteImages([]uint{victim.ID}); err != nil {
		t.Fatalf("DeleteImages: %v", err)
	}
	if store.Exists(victim.ImagePath) {
		t.Fatal("deleted image file still on disk")
	}

	got, _ = repo.GetGallery(g.ID)
	if len(got.Images) != 1 {
		t.Fatalf("expected 1 surviving image got %d", len(got.Images))
	}
	if got.Images[0].ID != survivor.ID || got.Images[0].Order != survivor.Order {
		t.Fatal("surviving image or its order changed")
	}
}

func TestUpdateImageOrdersReorders(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	repo := NewGalleryRepository(db, store)

	g, err := repo.CreateGallery(
		TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		[]NamedFile{
			{Key: "image_0", File: fileHeader(t, "a.jpg", jpegBytes())},
			{Key: "image_1", File: fileHeader(t, "b.jpg", jpegBytes())},
		},
	)
	if err != nil {
		t.Fatalf("CreateGallery: %v", err)
	}
	defer repo.DeleteGallery(g.ID)

	got, _ := repo.GetGallery(g.ID)
	first, second := got.Images[0].ID, got.Images[1].ID
	before := got.UpdatedAt
	time.Sleep(50 * time.Millisecond)
	if err := repo.UpdateImageOrders(map[uint]int{first: 1, second: 0}); err != nil {
		t.Fatalf("UpdateImageOrders: %v", err)
	}

	got, _ = repo.GetGallery(g.ID)
	if got.Images[0].ID != second || got.Images[1].ID != first {
		t.Fatal("retrieval did not follow the new orders")
	}
	if !got.UpdatedAt.After(before) {
		t.Fatalf("reorder did not touch the album: before=%v after=%v", before, got.UpdatedAt)
	}
}

func TestUpdateGalleryImageMutationTouchesAlbum(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	repo := NewGalleryRepository(db, store)

	g, err := repo.CreateGallery(
		TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		[]NamedFile{{Key: "image_0", File: fileHeader(t, "a.jpg", jpegBytes())}},
	)
	if err != nil {
		t.Fatalf("CreateGallery: %v", err)
	}
	defer repo.DeleteGallery(g.ID)

	before, err := repo.GetGallery(g.ID)
	if err != nil {
		t.Fatalf("GetGallery: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	// image-only mutation: identical topics, one appended file
	err = repo.UpdateGallery(g.ID, GalleryUpdate{
		Topics:   TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		NewFiles: []*multipart.FileHeader{fileHeader(t, "b.jpg", jpegBytes())},
	})
	if err != nil {
		t.Fatalf("UpdateGallery: %v", err)
	}
	after, _ := repo.GetGallery(g.ID)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("album timestamp did not advance: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
	}

	// the explicit caller flag alone must also touch the album
	before = after
	time.Sleep(50 * time.Millisecond)
	err = repo.UpdateGallery(g.ID, GalleryUpdate{
		Topics:         TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		ImagesModified: true,
	})
	if err != nil {
		t.Fatalf("UpdateGallery: %v", err)
	}
	after, _ = repo.GetGallery(g.ID)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("ImagesModified flag did not touch the album: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestDeleteGalleryRemovesImagesAndFiles(t *testing.T) {
	db := testDB(t)
	store := testStore(t)
	repo := NewGalleryRepository(db, store)

	g, err := repo.CreateGallery(
		TopicFields{TopicEn: "en", TopicSi: "si", TopicTa: "ta"},
		[]NamedFile{{Key: "image_0", File: fileHeader(t, "a.jpg", jpegBytes())}},
	)
	if err != nil {
		t.Fatalf("CreateGallery: %v", err)
	}
	got, _ := repo.GetGallery(g.ID)
	path := got.Images[0].ImagePath

	if err := repo.DeleteGallery(g.ID); err != nil {
		t.Fatalf("DeleteGallery: %v", err)
	}
	if store.Exists(path) {
		t.Fatal("image file should be removed with the album")
	}
	if _, err := repo.GetGallery(g.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
}
