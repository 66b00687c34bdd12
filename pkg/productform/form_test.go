package productform_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kasir/pkg/productclient"
	"kasir/pkg/productform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kopi() *productclient.Product {
	return &productclient.Product{
		ID: "p-1", Nama: "Kopi", Kode: "K1", Merk: "Kapal Api", Stok: 7, Harga: 5000, HargaBeli: 3500,
		JenisProduk: &productclient.Category{ID: 2, Name: "Minuman"},
		Gambar:      "/uploads/kopi.png",
	}
}

func TestForm_ResetSeedsAndBlanks(t *testing.T) {
	var f productform.Form

	f.Reset(kopi())
	assert.Equal(t, "p-1", f.EditingID())
	assert.Equal(t, "Kopi", f.Nama)
	assert.Equal(t, 7, f.Stok)
	assert.Equal(t, int64(3500), f.HargaBeli)
	assert.Equal(t, "2", f.JenisProduk)
	assert.Nil(t, f.Gambar, "the stored image is not re-sent")

	f.SetImage("baru.png", strings.NewReader("png"))
	f.Reset(nil)
	assert.Equal(t, productform.Form{}, f)
	assert.Empty(t, f.EditingID())
}

func TestForm_OpenKeepsOpenAcrossReset(t *testing.T) {
	var f productform.Form
	assert.False(t, f.IsOpen())

	f.Open(nil)
	assert.True(t, f.IsOpen())

	f.Reset(kopi())
	assert.True(t, f.IsOpen())
	assert.Equal(t, "Kopi", f.Nama)
}

func TestForm_Set(t *testing.T) {
	var f productform.Form
	require.NoError(t, f.Set(productform.FieldNama, "Teh"))
	require.NoError(t, f.Set(productform.FieldKode, "T1"))
	require.NoError(t, f.Set(productform.FieldMerk, "X"))
	require.NoError(t, f.Set(productform.FieldStok, "10"))
	require.NoError(t, f.Set(productform.FieldHarga, " 5000 "))
	require.NoError(t, f.Set(productform.FieldHargaBeli, "3000"))
	require.NoError(t, f.Set(productform.FieldJenisProduk, "2"))

	assert.Equal(t, productclient.Payload{
		Nama: "Teh", Kode: "T1", Merk: "X", Stok: 10, Harga: 5000, HargaBeli: 3000, JenisProduk: "2",
	}, f.Payload())

	require.NoError(t, f.Set(productform.FieldStok, ""))
	assert.Zero(t, f.Stok)

	assert.Error(t, f.Set(productform.FieldHarga, "lima ribu"))
	assert.Equal(t, int64(5000), f.Harga, "a rejected input keeps the previous value")
	assert.Error(t, f.Set("warna", "merah"))
}

func TestForm_PayloadIncludesChosenImageOnly(t *testing.T) {
	var f productform.Form
	f.Open(kopi())
	assert.Nil(t, f.Payload().Gambar)

	f.SetImage("kopi-baru.png", strings.NewReader("png"))
	require.NotNil(t, f.Payload().Gambar)
	assert.Equal(t, "kopi-baru.png", f.Payload().Gambar.Filename)
}

func TestForm_SubmitBlocksThenClosesUnconditionally(t *testing.T) {
	ctx := context.Background()
	var f productform.Form

	f.Open(nil)
	require.NoError(t, f.Set(productform.FieldNama, "Teh"))
	var got productclient.Payload
	err := f.Submit(ctx, func(_ context.Context, p productclient.Payload) error {
		assert.True(t, f.IsOpen(), "the form is still open while the callback runs")
		got = p
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Teh", got.Nama)
	assert.False(t, f.IsOpen())

	f.Open(nil)
	boom := errors.New("server down")
	err = f.Submit(ctx, func(context.Context, productclient.Payload) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.IsOpen())
}
