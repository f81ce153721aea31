package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/cache"
	"github.com/seid21/topia-estate-be/internal/models"
)

const (
	propertyCachePrefix = "properties"
	propertyCacheTTL    = 5 * time.Minute
	defaultPageLimit    = 10
	maxPageLimit        = 100
)

// Columns listings may be sorted by. Anything else falls back to created_at.
var propertySortColumns = map[string]string{
	"createdAt": "created_at",
	"minPrice":  "min_price",
	"maxPrice":  "max_price",
	"title":     "title",
	"location":  "location",
}

// PropertyServiceProvider defines the interface for property services.
type PropertyServiceProvider interface {
	CreateProperty(ctx context.Context, p models.Property) (models.Property, error)
	GetPropertyByID(ctx context.Context, id string) (models.Property, error)
	ListProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	DeleteProperty(ctx context.Context, id string) error
}

// PropertyService provides business logic for property listings, with a
// redis-backed cache over the listing query.
type PropertyService struct {
	db    *sql.DB
	cache *cache.Cache
}

// NewPropertyService creates a new PropertyService. cache may be nil.
func NewPropertyService(db *sql.DB, c *cache.Cache) *PropertyService {
	return &PropertyService{db: db, cache: c}
}

// CreateProperty stores a new listing. A seller cannot post two listings with
// the same title, and the price range must be coherent.
func (s *PropertyService) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if _, err := uuid.Parse(p.SellerID); err != nil {
		return models.Property{}, ErrMalformedID
	}
	if p.MinPrice > p.MaxPrice {
		return models.Property{}, ErrInvalidPrice
	}

	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (id, seller_id, type, title, location, size, min_price, max_price, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SellerID, p.Type, p.Title, p.Location, p.Size, p.MinPrice, p.MaxPrice, p.Description, p.ImageURL, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Property{}, ErrDuplicateTitle
		}
		return models.Property{}, err
	}

	s.invalidateListings(ctx)
	return p, nil
}

// GetPropertyByID retrieves a single listing.
func (s *PropertyService) GetPropertyByID(ctx context.Context, id string) (models.Property, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seller_id, type, title, location, size, min_price, max_price, description, image_url, created_at
		FROM properties WHERE id = ?`, id)
	var p models.Property
	err := row.Scan(&p.ID, &p.SellerID, &p.Type, &p.Title, &p.Location, &p.Size, &p.MinPrice, &p.MaxPrice, &p.Description, &p.ImageURL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Property{}, ErrNotFound
	}
	return p, err
}

// ListProperties returns listings matching the filter, consulting the cache
// before the database. Cache failures only cost the round trip.
func (s *PropertyService) ListProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	key := listingCacheKey(filter)

	var cached []models.Property
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Msg("Property cache read failed")
	} else if hit {
		return cached, nil
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT id, seller_id, type, title, location, size, min_price, max_price, description, image_url, created_at
		FROM properties WHERE 1=1`)
	var args []interface{}

	if filter.Location != "" {
		query.WriteString(" AND location LIKE ?")
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.Type != "" {
		query.WriteString(" AND type LIKE ?")
		args = append(args, "%"+filter.Type+"%")
	}
	if filter.Size != "" {
		query.WriteString(" AND size LIKE ?")
		args = append(args, "%"+filter.Size+"%")
	}
	if filter.MinPrice != nil {
		query.WriteString(" AND min_price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query.WriteString(" AND max_price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	sortCol, ok := propertySortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "ASC"
	if strings.EqualFold(filter.Order, "desc") {
		direction = "DESC"
	}
	query.WriteString(fmt.Sprintf(" ORDER BY %s %s", sortCol, direction))

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Type, &p.Title, &p.Location, &p.Size, &p.MinPrice, &p.MaxPrice, &p.Description, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, properties, propertyCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Property cache write failed")
	}
	return properties, nil
}

// DeleteProperty removes a listing.
func (s *PropertyService) DeleteProperty(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *PropertyService) invalidateListings(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, propertyCachePrefix); err != nil {
		log.Warn().Err(err).Msg("Property cache invalidation failed")
	}
}

func listingCacheKey(f models.PropertyFilter) string {
	params := map[string]string{
		"location": f.Location,
		"type":     f.Type,
		"size":     f.Size,
		"sortBy":   f.SortBy,
		"order":    f.Order,
		"page":     strconv.Itoa(f.Page),
		"limit":    strconv.Itoa(f.Limit),
	}
	if f.MinPrice != nil {
		params["minPrice"] = strconv.FormatInt(*f.MinPrice, 10)
	}
	if f.MaxPrice != nil {
		params["maxPrice"] = strconv.FormatInt(*f.MaxPrice, 10)
	}
	return cache.QueryKey(propertyCachePrefix, params)
}
