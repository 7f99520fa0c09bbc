package service

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellscout/sellscout-backend-go/internal/database"
	"github.com/sellscout/sellscout-backend-go/internal/models"
	"github.com/sellscout/sellscout-backend-go/internal/repository"
)

// The export format carries two junk lines before the header row.
const csvHeaderSkip = 2

var requiredColumns = []string{"ASIN", "Product Name", "Price", "Units Sold (Monthly)", "Category"}

// ImportService parses uploaded product CSV exports
type ImportService struct {
	products *repository.ProductRepository
	log      zerolog.Logger
}

// NewImportService creates a new import service
func NewImportService(products *repository.ProductRepository, log zerolog.Logger) *ImportService {
	return &ImportService{
		products: products,
		log:      log.With().Str("component", "import").Logger(),
	}
}

// ImportCSV reads a product export and inserts new products for the
// user. Rows with existing product names are skipped; malformed rows are
// logged and skipped without aborting the batch. Returns the number of
// imported products.
func (s *ImportService) ImportCSV(userID int64, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) <= csvHeaderSkip {
		return 0, fmt.Errorf("csv has no data rows")
	}

	header := records[csvHeaderSkip]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("csv missing required columns: %s", strings.Join(missing, ", "))
	}

	imported := 0
	err = database.Transaction(func(tx *sql.Tx) error {
		for rowNum, row := range records[csvHeaderSkip+1:] {
			product, err := s.rowToProduct(userID, row, columns)
			if err != nil {
				s.log.Warn().Int("row", rowNum+csvHeaderSkip+2).Err(err).Msg("skipping csv row")
				continue
			}

			exists, err := s.products.ExistsByNameTx(tx, userID, product.Name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			if err := s.products.InsertTx(tx, product); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("user_id", userID).Int("imported", imported).Msg("csv import finished")
	return imported, nil
}

func (s *ImportService) rowToProduct(userID int64, row []string, columns map[string]int) (*models.Product, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := field("Product Name")
	if name == "" {
		return nil, fmt.Errorf("empty product name")
	}

	price, err := strconv.ParseFloat(cleanPrice(field("Price")), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", field("Price"), err)
	}

	sales, err := strconv.Atoi(strings.ReplaceAll(field("Units Sold (Monthly)"), ",", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid monthly sales %q: %w", field("Units Sold (Monthly)"), err)
	}

	category := field("Category")
	if category == "" {
		category = "Uncategorized"
	}

	var url string
	if asin := field("ASIN"); asin != "" {
		url = "https://www.amazon.com/dp/" + asin
	}

	now := time.Now().UTC()
	return &models.Product{
		UserID:       userID,
		Name:         name,
		Category:     category,
		CurrentPrice: price,
		// Cost is unknown in the export; assume a 30% cost ratio.
		EstimatedCost:    price * 0.3,
		MonthlySales:     sales,
		CompetitionLevel: models.CompetitionMedium,
		ReviewRating:     4.0,
		ProductURL:       url,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func cleanPrice(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
