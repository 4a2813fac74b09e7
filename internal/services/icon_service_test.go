package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"navhub/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

func TestIconService_Upload(t *testing.T) {
	data := pngHeader + strings.Repeat("\x00", 600)
	var stored []byte
	store := &MockObjectStore{}
	store.On("PutObject", context.Background(), "icons", mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".png")
	}), mock.Anything, int64(len(data)), "image/png").
		Run(func(args mock.Arguments) {
			var err error
			stored, err = io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
		}).
		Return(nil).Once()

	icon, err := NewIconService(store, "icons").Upload(context.Background(), int64(len(data)), strings.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(icon.URL, "/api/icons/"))
	assert.True(t, validIconName(icon.Name))
	assert.Equal(t, data, string(stored))
	store.AssertExpectations(t)
}

func TestIconService_UploadTypeFromContent(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		mediaType string
		ext       string
	}{
		{"gif", "GIF89a\x01\x00\x01\x00", "image/gif", ".gif"},
		{"jpeg", "\xff\xd8\xff\xe0\x00\x10JFIF\x00", "image/jpeg", ".jpg"},
		{"ico", "\x00\x00\x01\x00\x01\x00\x10\x10", "image/x-icon", ".ico"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockObjectStore{}
			store.On("PutObject", context.Background(), "icons", mock.MatchedBy(func(name string) bool {
				return strings.HasSuffix(name, tt.ext)
			}), mock.Anything, int64(len(tt.data)), tt.mediaType).Return(nil).Once()

			_, err := NewIconService(store, "icons").Upload(context.Background(), int64(len(tt.data)), strings.NewReader(tt.data))
			require.NoError(t, err)
			store.AssertExpectations(t)
		})
	}
}

func TestIconService_UploadRejects(t *testing.T) {
	store := &MockObjectStore{}
	service := NewIconService(store, "icons")

	for _, data := range []string{
		"<html><body>hi</body></html>",
		`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`,
		"plain text pretending to be a png",
	} {
		_, err := service.Upload(context.Background(), int64(len(data)), strings.NewReader(data))
		assert.True(t, errors.Is(err, common.ErrValidation), data)
	}

	_, err := service.Upload(context.Background(), MaxIconSize+1, strings.NewReader(pngHeader))
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = service.Upload(context.Background(), 0, strings.NewReader(""))
	assert.True(t, errors.Is(err, common.ErrValidation))

	store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIconService_URL(t *testing.T) {
	name := uuid.NewString() + ".webp"
	store := &MockObjectStore{}
	store.On("ObjectExists", context.Background(), "icons", name).Return(true, nil).Once()
	store.On("GetPresignedURL", context.Background(), "icons", name, iconPresignExpiry).
		Return("http://minio/icons/"+name+"?sig", nil).Once()

	u, err := NewIconService(store, "icons").URL(context.Background(), name)
	require.NoError(t, err)
	assert.Contains(t, u, name)
	store.AssertExpectations(t)
}

func TestIconService_URLUnknownName(t *testing.T) {
	service := NewIconService(&MockObjectStore{}, "icons")

	for _, name := range []string{"../secret", "x.png", uuid.NewString() + ".exe", uuid.NewString() + ".svg"} {
		_, err := service.URL(context.Background(), name)
		assert.True(t, errors.Is(err, common.ErrNotFound), name)
	}
}

func TestIconService_URLMissingObject(t *testing.T) {
	name := uuid.NewString() + ".png"
	store := &MockObjectStore{}
	store.On("ObjectExists", context.Background(), "icons", name).Return(false, nil).Once()

	_, err := NewIconService(store, "icons").URL(context.Background(), name)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestIconService_Delete(t *testing.T) {
	name := uuid.NewString() + ".ico"
	store := &MockObjectStore{}
	store.On("ObjectExists", context.Background(), "icons", name).Return(true, nil).Once()
	store.On("DeleteObject", context.Background(), "icons", name).Return(nil).Once()

	require.NoError(t, NewIconService(store, "icons").Delete(context.Background(), name))
	store.AssertExpectations(t)

	missing := &MockObjectStore{}
	missing.On("ObjectExists", context.Background(), "icons", name).Return(false, nil).Once()
	err := NewIconService(missing, "icons").Delete(context.Background(), name)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	missing.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything, mock.Anything)
}
