// ABOUTME: Tests for the Charm KV vector store backend
// ABOUTME: Uses a map-backed fake so no charm account or network is needed
package charmkv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/maitre-ai/maitre/internal/models"
	"github.com/maitre-ai/maitre/internal/vectorstore"
)

type fakeKV struct {
	data map[string][]byte
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) SetJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = data
	return nil
}

func (f *fakeKV) GetJSON(key string, dest interface{}) error {
	data, ok := f.data[key]
	if !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) ListKeys(prefix string) ([]string, error) {
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newTestStore(kv *fakeKV) *Store {
	return &Store{kv: kv, dimension: 2}
}

func point(docID string, index int, vec []float32) vectorstore.Point {
	chunk := models.DocumentChunk{DocumentID: docID, Index: index, Text: fmt.Sprintf("%s/%d", docID, index)}
	return vectorstore.Point{ID: chunk.PointID(), Vector: vec, Chunk: chunk}
}

func TestUpsert_WritesPrefixedKeys(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(kv)

	if err := s.Upsert(context.Background(), []vectorstore.Point{point("doc", 0, []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}

	if len(kv.data) != 1 {
		t.Fatalf("stored %d keys, want 1", len(kv.data))
	}
	for k := range kv.data {
		if !strings.HasPrefix(k, ChunkPrefix) {
			t.Errorf("key %q missing prefix %q", k, ChunkPrefix)
		}
	}
}

func TestUpsert_IsIdempotentPerChunk(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(kv)
	ctx := context.Background()

	if err := s.Upsert(ctx, []vectorstore.Point{point("doc", 0, []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, []vectorstore.Point{point("doc", 0, []float32{0, 1})}); err != nil {
		t.Fatal(err)
	}

	if len(kv.data) != 1 {
		t.Errorf("re-upsert of the same chunk stored %d keys, want 1", len(kv.data))
	}
}

func TestUpsert_RejectsWrongDimension(t *testing.T) {
	s := newTestStore(newFakeKV())
	err := s.Upsert(context.Background(), []vectorstore.Point{point("doc", 0, []float32{1, 0, 0})})
	if err == nil {
		t.Error("Upsert accepted a 3D vector into a 2D store")
	}
}

func TestDeleteByDocument(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(kv)
	ctx := context.Background()

	points := []vectorstore.Point{
		point("doc-a", 0, []float32{1, 0}),
		point("doc-a", 1, []float32{0.9, 0.1}),
		point("doc-b", 0, []float32{0, 1}),
	}
	if err := s.Upsert(ctx, points); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteByDocument(ctx, "doc-a"); err != nil {
		t.Fatal(err)
	}
	if len(kv.data) != 1 {
		t.Errorf("%d keys remain after delete, want 1", len(kv.data))
	}
}

func TestQuery_OrdersByCosine(t *testing.T) {
	kv := newFakeKV()
	s := newTestStore(kv)
	ctx := context.Background()

	points := []vectorstore.Point{
		point("doc", 0, []float32{1, 0}),
		point("doc", 1, []float32{0.7, 0.7}),
		point("doc", 2, []float32{0, 1}),
	}
	if err := s.Upsert(ctx, points); err != nil {
		t.Fatal(err)
	}

	matches, err := s.Query(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Chunk.Index != 0 || matches[1].Chunk.Index != 1 {
		t.Errorf("order = [%d, %d], want [0, 1]", matches[0].Chunk.Index, matches[1].Chunk.Index)
	}
}

func TestQuery_RejectsWrongDimension(t *testing.T) {
	s := newTestStore(newFakeKV())
	if _, err := s.Query(context.Background(), []float32{1}, 5); err == nil {
		t.Error("Query accepted a 1D vector against a 2D store")
	}
}
