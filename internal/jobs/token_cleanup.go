package jobs

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// PurgeStaleRefreshTokens deletes refresh tokens that are revoked or past
// their expiry. Run nightly by the cron scheduler in main.
func PurgeStaleRefreshTokens(db *gorm.DB, log zerolog.Logger) {
	result := db.Where("is_revoked = ? OR expires_at < ?", true, time.Now()).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("refresh token purge failed")
		return
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("purged", result.RowsAffected).Msg("purged stale refresh tokens")
	}
}
