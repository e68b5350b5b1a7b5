package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
)

// auditEntry is the input to createAuditLog. Audit writes are best effort
// and must never fail the flow that records them.
type auditEntry struct {
	Action      string
	Description string
	AdminID     *uint
	LeadID      *uint
	Success     bool
	Metadata    map[string]any
}

func createAuditLog(ctx context.Context, auditRepo repository.AuditLogRepository, entry auditEntry, metadata *ClientMetadata) error {
	if auditRepo == nil {
		return nil
	}

	log := &models.AuditLog{
		AdminID:     entry.AdminID,
		LeadID:      entry.LeadID,
		Action:      entry.Action,
		Description: utils.ToPtr(entry.Description),
		Success:     entry.Success,
		CreatedAt:   utils.UTCNow(),
	}

	if metadata != nil {
		if metadata.IPAddress != "" {
			log.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			log.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		if entry.Metadata == nil {
			entry.Metadata = map[string]any{}
		}
		if metadata.RequestID != "" {
			entry.Metadata["request_id"] = metadata.RequestID
		}
	}

	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
		log.Metadata = raw
	}

	if err := auditRepo.Save(ctx, log); err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}
	return nil
}
