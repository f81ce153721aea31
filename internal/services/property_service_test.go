package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seid21/topia-estate-be/internal/models"
)

func testProperty(sellerID, title, location string, minPrice, maxPrice int64) models.Property {
	return models.Property{
		SellerID:    sellerID,
		Type:        "apartment",
		Title:       title,
		Location:    location,
		Size:        "120sqm",
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		Description: "three bedrooms, city view",
	}
}

func TestCreateProperty(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewPropertyService(db, nil)
	ctx := context.Background()

	seller := insertUser(t, db, "seller")

	created, err := svc.CreateProperty(ctx, testProperty(seller, "Bole Apartment", "Addis Ababa", 100, 200))
	req.NoError(err)
	req.NotEmpty(created.ID)

	got, err := svc.GetPropertyByID(ctx, created.ID)
	req.NoError(err)
	req.Equal("Bole Apartment", got.Title)
	req.Equal(seller, got.SellerID)
}

func TestCreatePropertyRejectsBadInput(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewPropertyService(db, nil)
	ctx := context.Background()

	seller := insertUser(t, db, "seller")

	_, err := svc.CreateProperty(ctx, testProperty("not-a-uuid", "X", "Y", 1, 2))
	req.ErrorIs(err, ErrMalformedID)

	_, err = svc.CreateProperty(ctx, testProperty(seller, "Inverted", "Addis", 300, 200))
	req.ErrorIs(err, ErrInvalidPrice)

	_, err = svc.CreateProperty(ctx, testProperty(seller, "Twice", "Addis", 1, 2))
	req.NoError(err)
	_, err = svc.CreateProperty(ctx, testProperty(seller, "Twice", "Addis", 1, 2))
	req.ErrorIs(err, ErrDuplicateTitle)

	// A different seller may reuse the title.
	other := insertUser(t, db, "other")
	_, err = svc.CreateProperty(ctx, testProperty(other, "Twice", "Addis", 1, 2))
	req.NoError(err)
}

func TestListPropertiesFilterSortPaginate(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewPropertyService(db, nil)
	ctx := context.Background()

	seller := insertUser(t, db, "seller")
	fixtures := []models.Property{
		testProperty(seller, "Cheap in Bole", "Addis Ababa, Bole", 50, 100),
		testProperty(seller, "Mid in Kazanchis", "Addis Ababa, Kazanchis", 150, 250),
		testProperty(seller, "Pricey in Bole", "Addis Ababa, Bole", 400, 600),
		testProperty(seller, "Villa in Hawassa", "Hawassa", 300, 500),
	}
	for _, p := range fixtures {
		_, err := svc.CreateProperty(ctx, p)
		req.NoError(err)
	}

	byLocation, err := svc.ListProperties(ctx, models.PropertyFilter{Location: "bole"})
	req.NoError(err)
	req.Len(byLocation, 2)

	min := int64(140)
	byPrice, err := svc.ListProperties(ctx, models.PropertyFilter{MinPrice: &min})
	req.NoError(err)
	req.Len(byPrice, 3)

	sorted, err := svc.ListProperties(ctx, models.PropertyFilter{SortBy: "minPrice", Order: "desc"})
	req.NoError(err)
	req.Len(sorted, 4)
	req.Equal("Pricey in Bole", sorted[0].Title)
	req.Equal("Cheap in Bole", sorted[3].Title)

	paged, err := svc.ListProperties(ctx, models.PropertyFilter{SortBy: "minPrice", Order: "asc", Page: 2, Limit: 3})
	req.NoError(err)
	req.Len(paged, 1)
	req.Equal("Pricey in Bole", paged[0].Title)
}

func TestListPropertiesEmptyResult(t *testing.T) {
	req := require.New(t)
	svc := NewPropertyService(newTestDB(t), nil)

	listed, err := svc.ListProperties(context.Background(), models.PropertyFilter{Location: "nowhere"})
	req.NoError(err)
	req.NotNil(listed)
	req.Empty(listed)
}

func TestDeleteProperty(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewPropertyService(db, nil)
	ctx := context.Background()

	seller := insertUser(t, db, "seller")
	created, err := svc.CreateProperty(ctx, testProperty(seller, "Going", "Addis", 1, 2))
	req.NoError(err)

	req.NoError(svc.DeleteProperty(ctx, created.ID))
	req.ErrorIs(svc.DeleteProperty(ctx, created.ID), ErrNotFound)

	_, err = svc.GetPropertyByID(ctx, created.ID)
	req.ErrorIs(err, ErrNotFound)
}
