package productcontroller

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"github.com/xhfmvls/c-buy/database/testdb"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

type fakeCache struct {
	items       map[string]*models.Product
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]*models.Product{}}
}

func (f *fakeCache) Get(_ context.Context, id string) (*models.Product, bool) {
	p, ok := f.items[id]
	return p, ok
}

func (f *fakeCache) Set(_ context.Context, p *models.Product) {
	f.items[p.ProductID] = p
}

func (f *fakeCache) Invalidate(_ context.Context, ids ...string) {
	for _, id := range ids {
		delete(f.items, id)
	}
	f.invalidated = append(f.invalidated, ids...)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, db *gorm.DB, storeID, name string) *models.Product {
	t.Helper()
	p, err := CreateProduct(context.Background(), db, storeID, CreateProductInput{
		ProductName: name,
		Price:       price("12.345"),
		Category:    "food",
		Stocks:      5,
	})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return p
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %d error, got nil", status)
	}
	if got := models.StatusOf(err); got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
}

func TestCreateProduct(t *testing.T) {
	db := testdb.Open(t)
	p := mustCreate(t, db, "store-a", "apple")

	if p.ProductID == "" || p.StoreID != "store-a" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if !p.Price.Equal(decimal.RequireFromString("12.35")) {
		t.Fatalf("expected price rounded to 12.35, got %s", p.Price)
	}

	cases := []struct {
		name string
		in   CreateProductInput
	}{
		{"missing name", CreateProductInput{Price: price("1"), Category: "c"}},
		{"missing category", CreateProductInput{ProductName: "n", Price: price("1")}},
		{"missing price", CreateProductInput{ProductName: "n", Category: "c"}},
		{"negative price", CreateProductInput{ProductName: "n", Category: "c", Price: price("-1")}},
		{"negative stocks", CreateProductInput{ProductName: "n", Category: "c", Price: price("1"), Stocks: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateProduct(context.Background(), db, "store-a", tc.in)
			wantStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestListProducts(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		mustCreate(t, db, "store-a", name)
	}
	mustCreate(t, db, "store-b", "d")

	all, err := ListProducts(ctx, db, ProductQuery{})
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 products, got %d (%v)", len(all), err)
	}

	page2, err := ListProducts(ctx, db, ProductQuery{Limit: 3, Page: 2})
	if err != nil || len(page2) != 1 {
		t.Fatalf("expected 1 product on page 2, got %d (%v)", len(page2), err)
	}

	byStore, err := ListProducts(ctx, db, ProductQuery{StoreID: "store-b"})
	if err != nil || len(byStore) != 1 || byStore[0].ProductName != "d" {
		t.Fatalf("unexpected store filter result: %+v (%v)", byStore, err)
	}

	_, err = ListProducts(ctx, db, ProductQuery{Limit: 3, Page: 5})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestProductQueryNormalize(t *testing.T) {
	q := ProductQuery{Limit: 500, Page: 3}
	q.normalize()
	if q.Limit != maxLimit || *q.Offset != 2*maxLimit {
		t.Fatalf("unexpected normalized query: limit %d offset %d", q.Limit, *q.Offset)
	}

	q = ProductQuery{Offset: intPtr(7)}
	q.normalize()
	if q.Limit != defaultLimit || *q.Offset != 7 || q.Page != 1 {
		t.Fatalf("explicit offset should win: %+v", q)
	}
}

func TestFindProductUsesCache(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	pc := newFakeCache()
	p := mustCreate(t, db, "store-a", "apple")

	got, err := FindProduct(ctx, db, pc, p.ProductID)
	if err != nil || got.ProductName != "apple" {
		t.Fatalf("unexpected result: %+v (%v)", got, err)
	}
	if _, ok := pc.items[p.ProductID]; !ok {
		t.Fatal("expected product cached after miss")
	}

	// A cached value is served without touching the database.
	pc.items[p.ProductID] = &models.Product{ProductID: p.ProductID, ProductName: "cached"}
	got, _ = FindProduct(ctx, db, pc, p.ProductID)
	if got.ProductName != "cached" {
		t.Fatalf("expected cached product, got %s", got.ProductName)
	}

	_, err = FindProduct(ctx, db, pc, "missing")
	wantStatus(t, err, http.StatusNotFound)
}

func TestPatchProduct(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	p := mustCreate(t, db, "store-a", "apple")

	t.Run("price only", func(t *testing.T) {
		changes, err := PatchProduct(ctx, db, "store-a", PatchProductInput{ProductID: p.ProductID, Price: price("3.5")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(changes) != 1 {
			t.Fatalf("expected only price in changes, got %v", changes)
		}

		var stored models.Product
		db.First(&stored, "product_id = ?", p.ProductID)
		if !stored.Price.Equal(decimal.RequireFromString("3.5")) || stored.ProductName != "apple" || stored.Stocks != 5 {
			t.Fatalf("unexpected stored product: %+v", stored)
		}
	})

	t.Run("stocks to zero", func(t *testing.T) {
		if _, err := PatchProduct(ctx, db, "store-a", PatchProductInput{ProductID: p.ProductID, Stocks: intPtr(0)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var stored models.Product
		db.First(&stored, "product_id = ?", p.ProductID)
		if stored.Stocks != 0 {
			t.Fatalf("expected stocks 0, got %d", stored.Stocks)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := PatchProduct(ctx, db, "store-a", PatchProductInput{ProductName: strPtr("x")})
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := PatchProduct(ctx, db, "store-a", PatchProductInput{ProductID: p.ProductID})
		wantStatus(t, err, http.StatusBadRequest)
	})

	t.Run("foreign store", func(t *testing.T) {
		_, err := PatchProduct(ctx, db, "store-b", PatchProductInput{ProductID: p.ProductID, Stocks: intPtr(99)})
		wantStatus(t, err, http.StatusNotFound)
	})
}

func TestDeleteProduct(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	p := mustCreate(t, db, "store-a", "apple")
	if err := db.Create(&models.Cart{UserID: "u1", ProductID: p.ProductID, Quantity: 1}).Error; err != nil {
		t.Fatal(err)
	}

	wantStatus(t, DeleteProduct(ctx, db, "store-b", p.ProductID), http.StatusNotFound)
	wantStatus(t, DeleteProduct(ctx, db, "store-a", ""), http.StatusBadRequest)

	if err := DeleteProduct(ctx, db, "store-a", p.ProductID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var n int64
	db.Model(&models.Cart{}).Where("product_id = ?", p.ProductID).Count(&n)
	if n != 0 {
		t.Fatalf("expected cart lines removed, %d left", n)
	}

	wantStatus(t, DeleteProduct(ctx, db, "store-a", p.ProductID), http.StatusNotFound)
}

func TestExcelRoundTrip(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	p := mustCreate(t, db, "store-a", "apple")
	mustCreate(t, db, "store-b", "pear")

	var buf bytes.Buffer
	if err := WriteStoreProducts(ctx, db, "store-a", &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	exported, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	sheet := exported.Sheets[0]
	if sheet.MaxRow != 2 {
		t.Fatalf("expected header and one row, got %d rows", sheet.MaxRow)
	}

	// Edit the exported row and append a new product.
	sheet.Rows[1].Cells[4].SetValue(42)
	row := sheet.AddRow()
	for _, v := range []interface{}{"", "banana", "1.20", "fruit", 7} {
		row.AddCell().SetValue(v)
	}
	var edited bytes.Buffer
	if err := exported.Write(&edited); err != nil {
		t.Fatal(err)
	}

	res, err := ImportStoreProducts(ctx, db, "store-a", bytes.NewReader(edited.Bytes()), int64(edited.Len()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 || res.Skipped != 0 {
		t.Fatalf("unexpected import result: %+v", res)
	}

	var stored models.Product
	db.First(&stored, "product_id = ?", p.ProductID)
	if stored.Stocks != 42 {
		t.Fatalf("expected stocks 42, got %d", stored.Stocks)
	}

	var count int64
	db.Model(&models.Product{}).Where("store_id = ?", "store-a").Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 store-a products, got %d", count)
	}
}
