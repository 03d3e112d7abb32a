package transport

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/GriffinCanCode/volley/request"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"message":"hello, compressed world"}`

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecodeBody(t *testing.T) {
	t.Run("gzip", func(t *testing.T) {
		got, err := decodeBody("gzip", gzipped(t, payload))
		require.NoError(t, err)
		assert.Equal(t, payload, string(got))
	})

	t.Run("deflate zlib wrapped", func(t *testing.T) {
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		_, err := w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		got, err := decodeBody("deflate", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, payload, string(got))
	})

	t.Run("deflate raw", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		_, err = w.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		got, err := decodeBody("Deflate", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, payload, string(got))
	})

	t.Run("zstd", func(t *testing.T) {
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		compressed := enc.EncodeAll([]byte(payload), nil)
		require.NoError(t, enc.Close())

		got, err := decodeBody("zstd", compressed)
		require.NoError(t, err)
		assert.Equal(t, payload, string(got))
	})

	t.Run("identity and unknown pass through", func(t *testing.T) {
		for _, enc := range []string{"", "identity", "br"} {
			got, err := decodeBody(enc, []byte(payload))
			require.NoError(t, err)
			assert.Equal(t, payload, string(got), enc)
		}
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		_, err := decodeBody("gzip", []byte("not gzip"))
		assert.Error(t, err)
	})
}

func TestApplyCachePolicy(t *testing.T) {
	tests := []struct {
		policy request.CachePolicy
		preset string
		want   string
	}{
		{request.ReloadIgnoringCache, "", "no-cache"},
		{request.ReturnCacheDataElseLoad, "", "max-stale"},
		{request.UseProtocolCachePolicy, "", ""},
		{request.ReloadIgnoringCache, "max-age=0", "max-age=0"},
	}

	for _, tt := range tests {
		h := http.Header{}
		if tt.preset != "" {
			h.Set("Cache-Control", tt.preset)
		}
		applyCachePolicy(h, tt.policy)
		assert.Equal(t, tt.want, h.Get("Cache-Control"), tt.policy.String())
	}
}

func TestNewLimiter(t *testing.T) {
	unlimited := newLimiter(0, 0)
	assert.True(t, unlimited.Allow())

	limited := newLimiter(2.5, 0)
	assert.Equal(t, 2, limited.Burst())

	slow := newLimiter(0.5, 0)
	assert.Equal(t, 1, slow.Burst())

	explicit := newLimiter(10, 3)
	assert.Equal(t, 3, explicit.Burst())
}
