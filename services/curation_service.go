package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/repository"
	"gorm.io/gorm"
)

// CurationService manages draft curation entries. A draft gets its
// stable ID the moment it is created; the ID only goes live when the
// record is published. Drafts are private to the curator who owns them.
type CurationService struct {
	db           *gorm.DB
	curationRepo repository.CurationRepositoryInterface
	stableIDRepo repository.StableIDRepositoryInterface
	refRepo      repository.ReferenceRepositoryInterface
}

func NewCurationService(db *gorm.DB) *CurationService {
	return &CurationService{
		db:           db,
		curationRepo: repository.NewGormCurationRepository(db),
		stableIDRepo: repository.NewGormStableIDRepository(db),
		refRepo:      repository.NewGormReferenceRepository(db),
	}
}

// CreateDraft saves a new curation entry and allocates its stable ID
func (s *CurationService) CreateDraft(actor *models.User, data models.CurationJSON) (*models.CurationData, error) {
	if data.SessionName == "" {
		return nil, NewValidationError("Session name is required")
	}
	if data.Locus == "" {
		return nil, NewValidationError("Locus is required to save a draft")
	}
	if _, err := s.refRepo.GetLocusByName(data.Locus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Invalid locus '%s'", data.Locus)
		}
		return nil, fmt.Errorf("failed to look up locus %s: %w", data.Locus, err)
	}

	if _, err := s.curationRepo.GetBySessionName(data.SessionName); err == nil {
		return nil, NewConflictError("Session name '%s' already exists", data.SessionName)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check session name: %w", err)
	}

	var assignedID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		stableID, err := repository.NewGormStableIDRepository(tx).CreateNext()
		if err != nil {
			return fmt.Errorf("failed to allocate stable ID: %w", err)
		}
		assignedID = stableID.StableID

		now := time.Now()
		draft := models.CurationData{
			SessionName:    data.SessionName,
			JSONData:       data,
			StableIDID:     stableID.ID,
			GeneSymbol:     data.Locus,
			UserID:         actor.ID,
			DateCreated:    now,
			DateLastUpdate: now,
		}
		return repository.NewGormCurationRepository(tx).Create(&draft)
	})
	if err != nil {
		return nil, err
	}
	return s.curationRepo.GetByStableID(assignedID, actor.ID)
}

// GetDraft fetches one of the actor's drafts by stable ID
func (s *CurationService) GetDraft(actor *models.User, stableID string) (*models.CurationData, error) {
	draft, err := s.curationRepo.GetByStableID(stableID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Curation data not found for ID '%s'", stableID)
		}
		return nil, fmt.Errorf("failed to fetch curation data for %s: %w", stableID, err)
	}
	return draft, nil
}

// ListDrafts returns the actor's drafts, most recently updated first
func (s *CurationService) ListDrafts(actor *models.User) ([]models.CurationData, error) {
	return s.curationRepo.ListByUser(actor.ID)
}

// UpdateDraft replaces the staged JSON of an existing draft
func (s *CurationService) UpdateDraft(actor *models.User, stableID string, data models.CurationJSON) (*models.CurationData, error) {
	draft, err := s.GetDraft(actor, stableID)
	if err != nil {
		return nil, err
	}

	if data.Locus != "" && data.Locus != draft.GeneSymbol {
		return nil, NewValidationError("Cannot change the locus of an existing draft")
	}
	if data.SessionName != "" && data.SessionName != draft.SessionName {
		if _, err := s.curationRepo.GetBySessionName(data.SessionName); err == nil {
			return nil, NewConflictError("Session name '%s' already exists", data.SessionName)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check session name: %w", err)
		}
		draft.SessionName = data.SessionName
	}

	draft.JSONData = data
	draft.DateLastUpdate = time.Now()
	if err := s.curationRepo.Update(draft); err != nil {
		return nil, fmt.Errorf("failed to update curation data for %s: %w", stableID, err)
	}
	return draft, nil
}

// DeleteDraft discards a draft and retires its never-published stable ID
func (s *CurationService) DeleteDraft(actor *models.User, stableID string) error {
	draft, err := s.GetDraft(actor, stableID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormCurationRepository(tx).Delete(draft.ID); err != nil {
			return fmt.Errorf("failed to delete curation data for %s: %w", stableID, err)
		}
		return repository.NewGormStableIDRepository(tx).Retire(draft.StableIDID, "Curation deleted")
	})
}
