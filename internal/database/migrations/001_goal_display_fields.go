package migrations

import (
	"github.com/glucolog/glucolog/internal/analytics"
	"gorm.io/gorm"
)

// Goals created before display fields were persisted carry empty titles and
// units; backfill them from the metric table.
func init() {
	Register("001_goal_display_fields", func(db *gorm.DB) error {
		for metric, info := range analytics.Metrics {
			err := db.Table("goals").
				Where("metric_type = ? AND (title = '' OR unit = '')", string(metric)).
				Updates(map[string]interface{}{
					"title": info.Title,
					"unit":  info.Unit,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
