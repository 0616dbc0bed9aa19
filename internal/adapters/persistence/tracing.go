package persistence

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// EnableTracing records a span for every statement run through db. Query
// arguments are left out of the spans.
func EnableTracing(db *gorm.DB, dbName string) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)

	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("registering otelgorm: %w", err)
	}

	return nil
}
