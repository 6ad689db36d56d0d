package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	obj := Object{ID: uuid.New(), Name: "kira sözleşmesi.PDF", Namespace: NamespaceDocuments}
	path, err := st.Put(ctx, obj, strings.NewReader("%PDF-1.4 içerik"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "documents/"+obj.ID.String()[:2]+"/"))
	assert.True(t, strings.HasSuffix(path, "_kira_sözleşmesi.pdf"))

	rc, err := st.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 içerik", string(data))

	require.NoError(t, st.Delete(ctx, path))
	_, err = st.Open(ctx, path)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, st.Delete(ctx, path))
}

func TestLocalStorage_RejectsEscape(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = st.Open(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestObjectPath_Sanitizes(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	path := objectPath(Object{ID: id, Name: "../a b\\c.docx", Namespace: NamespacePetitions})
	assert.Equal(t, "petitions/0f/0f8fad5b-d9cb-469f-a165-70867728950e_a_b_c.docx", path)
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a.pdf":  "application/pdf",
		"a.DOCX": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"a.jpeg": "image/jpeg",
		"a.png":  "image/png",
		"a.bin":  "application/octet-stream",
	}
	for name, want := range tests {
		assert.Equal(t, want, contentTypeFor(Object{Name: name}), name)
	}
	assert.Equal(t, "image/png", contentTypeFor(Object{Name: "x.pdf", ContentType: "image/png"}))
}

func TestNewStorage_Unknown(t *testing.T) {
	_, err := NewStorage(context.Background(), StorageConfig{Type: "ftp"})
	assert.Error(t, err)

	_, err = NewStorage(context.Background(), StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)
}
