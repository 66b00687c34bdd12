package productview_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"kasir/internal/apptest"
	"kasir/pkg/productclient"
	"kasir/pkg/productform"
	"kasir/pkg/productstore"
	"kasir/pkg/productview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of productview.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Products() []productclient.Product {
	args := m.Called()
	return args.Get(0).([]productclient.Product)
}

func (m *MockStore) LoadAll(ctx context.Context, page int) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockStore) Create(ctx context.Context, payload productclient.Payload) (productclient.Product, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(productclient.Product), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, id string, payload productclient.Payload) (productclient.Product, error) {
	args := m.Called(ctx, id, payload)
	return args.Get(0).(productclient.Product), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestView_FiltersAndMenus(t *testing.T) {
	store := new(MockStore)
	store.On("Products").Return(catalog())
	view := productview.New(store)

	assert.Equal(t, []string{"Minuman", "Sembako"}, view.Categories())
	assert.Equal(t, []string{"1", "2"}, ids(view.Rows()))

	view.SetQuery("a")
	view.ToggleCategory("Sembako")
	assert.Equal(t, []string{"2"}, ids(view.Rows()))

	view.ToggleCategory("Minuman")
	view.ToggleCategory("Sembako")
	assert.Equal(t, []string{"Minuman"}, view.Selected())

	view.ClearFilter()
	assert.Empty(t, view.Selected())
	assert.Equal(t, []string{"1", "2"}, ids(view.Rows()))

	view.ToggleMenu("1")
	assert.Equal(t, "1", view.OpenMenu())
	view.ToggleMenu("2")
	assert.Equal(t, "2", view.OpenMenu(), "only one menu is open at a time")
	view.ToggleMenu("2")
	assert.Empty(t, view.OpenMenu())
}

func TestView_EditSeedsForm(t *testing.T) {
	store := new(MockStore)
	store.On("Products").Return(catalog())
	view := productview.New(store)

	view.ToggleMenu("2")
	require.True(t, view.Edit("2"))
	assert.Empty(t, view.OpenMenu())
	assert.True(t, view.Form().IsOpen())
	assert.Equal(t, "2", view.Form().EditingID())
	assert.Equal(t, "Gula", view.Form().Nama)
	assert.Equal(t, "2", view.Form().JenisProduk)

	assert.False(t, view.Edit("missing"))

	view.Add()
	assert.Empty(t, view.Form().EditingID())
	assert.Empty(t, view.Form().Nama)
}

func TestView_DeleteNotifications(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	view := productview.New(store)

	store.On("Delete", ctx, "1").Return(nil).Once()
	n := view.Delete(ctx, "1")
	assert.Equal(t, productview.Notification{Type: productview.NotificationSuccess, Message: productview.MessageDeleted}, n)

	store.On("Delete", ctx, "2").Return(&productclient.Error{Kind: productclient.KindConflict, Status: 409, Message: "Dipakai di transaksi #7"}).Once()
	n = view.Delete(ctx, "2")
	assert.Equal(t, productview.NotificationError, n.Type)
	assert.Equal(t, "Dipakai di transaksi #7", n.Message)

	store.On("Delete", ctx, "3").Return(&productclient.Error{Kind: productclient.KindConflict, Status: 409}).Once()
	n = view.Delete(ctx, "3")
	assert.Equal(t, productview.MessageDeleteConflict, n.Message)

	store.On("Delete", ctx, "4").Return(&productclient.Error{Kind: productclient.KindNetwork, Err: errors.New("refused")}).Once()
	n = view.Delete(ctx, "4")
	assert.Equal(t, productview.MessageDeleteFailed, n.Message)
	assert.NotEqual(t, productview.MessageDeleteConflict, n.Message)

	got, ok := view.Notification()
	assert.True(t, ok)
	assert.Equal(t, n, got)
	view.DismissNotification()
	_, ok = view.Notification()
	assert.False(t, ok)
	store.AssertExpectations(t)
}

func TestView_SubmitCreatesOrUpdates(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Products").Return(catalog())
	view := productview.New(store)

	view.Add()
	require.NoError(t, view.Form().Set(productform.FieldNama, "Teh"))
	store.On("Create", ctx, mock.MatchedBy(func(p productclient.Payload) bool { return p.Nama == "Teh" })).
		Return(productclient.Product{ID: "3", Nama: "Teh"}, nil).Once()
	require.NoError(t, view.Submit(ctx))
	assert.False(t, view.Form().IsOpen())
	n, _ := view.Notification()
	assert.Equal(t, productview.MessageCreated, n.Message)

	require.True(t, view.Edit("1"))
	require.NoError(t, view.Form().Set(productform.FieldNama, "Kopi Susu"))
	store.On("Update", ctx, "1", mock.MatchedBy(func(p productclient.Payload) bool { return p.Nama == "Kopi Susu" })).
		Return(productclient.Product{}, &productclient.Error{Kind: productclient.KindValidation, Status: 400, Message: "Validation failed"}).Once()
	err := view.Submit(ctx)
	assert.ErrorIs(t, err, productclient.ErrValidation)
	assert.False(t, view.Form().IsOpen(), "the form closes even when saving fails")
	n, _ = view.Notification()
	assert.Equal(t, productview.Notification{Type: productview.NotificationError, Message: "Validation failed"}, n)

	store.On("LoadAll", ctx, 2).Return(nil).Once()
	require.NoError(t, view.SetPage(ctx, 2))
	store.AssertExpectations(t)
}

// The full list screen against the in-process application.
func TestView_WithStore(t *testing.T) {
	ctx := context.Background()
	srv := apptest.New(t)
	client := productclient.New(apptest.BaseURL, srv.Client())

	minuman, err := client.CreateCategory(ctx, "Minuman")
	require.NoError(t, err)
	sembako, err := client.CreateCategory(ctx, "Sembako")
	require.NoError(t, err)
	kopi, err := client.Create(ctx, productclient.Payload{Nama: "Kopi", Kode: "K1", Stok: 5, JenisProduk: fmt.Sprint(minuman.ID)})
	require.NoError(t, err)
	gula, err := client.Create(ctx, productclient.Payload{Nama: "Gula", Kode: "G1", Stok: 5, JenisProduk: fmt.Sprint(sembako.ID)})
	require.NoError(t, err)
	srv.RecordSale(t, kopi.ID, 1)

	store := productstore.New(client)
	require.NoError(t, store.Mount(ctx))
	view := productview.New(store)

	assert.Equal(t, []string{"Minuman", "Sembako"}, view.Categories())
	view.SetQuery("kop")
	assert.Equal(t, []string{kopi.ID}, ids(view.Rows()))
	view.SetQuery("")

	n := view.Delete(ctx, kopi.ID)
	assert.Equal(t, productview.NotificationError, n.Type)
	assert.Equal(t, productview.MessageDeleteConflict, n.Message)
	assert.Len(t, store.Products(), 2)

	n = view.Delete(ctx, gula.ID)
	assert.Equal(t, productview.MessageDeleted, n.Message)
	assert.Equal(t, []string{kopi.ID}, ids(view.Rows()))
	assert.Equal(t, []string{"Minuman"}, view.Categories())

	view.Add()
	for field, value := range map[string]string{
		productform.FieldNama: "Teh", productform.FieldKode: "T1", productform.FieldStok: "10",
		productform.FieldHarga: "5000", productform.FieldHargaBeli: "3000", productform.FieldMerk: "X",
		productform.FieldJenisProduk: fmt.Sprint(minuman.ID),
	} {
		require.NoError(t, view.Form().Set(field, value))
	}
	require.NoError(t, view.Submit(ctx))

	rows := view.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Teh", rows[1].Nama)
	assert.Equal(t, 10, rows[1].Stok)
	assert.Equal(t, "Minuman", rows[1].CategoryName())
}
