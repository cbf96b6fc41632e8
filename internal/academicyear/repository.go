package academicyear

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(y *AcademicYear) error {
	return r.DB.Create(y).Error
}

func (r *Repository) GetAll() ([]AcademicYear, error) {
	var years []AcademicYear
	err := r.DB.Order("start_date DESC").Find(&years).Error
	return years, err
}

func (r *Repository) GetByID(id uint) (AcademicYear, error) {
	var y AcademicYear
	err := r.DB.First(&y, id).Error
	return y, err
}

func (r *Repository) GetCurrent() (AcademicYear, error) {
	var y AcademicYear
	err := r.DB.Where("is_current = ?", true).First(&y).Error
	return y, err
}

func (r *Repository) Update(y *AcademicYear) error {
	return r.DB.Save(y).Error
}

// SetCurrent flips the current-year flag. Clear-all-then-set inside one
// transaction with the rows locked, so two concurrent writers cannot leave
// two years marked current.
func (r *Repository) SetCurrent(yearID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var target AcademicYear
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&target, yearID).Error; err != nil {
			return err
		}
		if err := tx.Model(&AcademicYear{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return err
		}
		return tx.Model(&AcademicYear{}).
			Where("id = ?", yearID).
			Update("is_current", true).Error
	})
}

// ========== TRANSITIONS ==========

func (r *Repository) GetTransitionByID(id uint) (AcademicYearTransition, error) {
	var t AcademicYearTransition
	err := r.DB.Preload("FromYear").Preload("ToYear").First(&t, id).Error
	return t, err
}

func (r *Repository) GetTransitions() ([]AcademicYearTransition, error) {
	var ts []AcademicYearTransition
	err := r.DB.Preload("FromYear").Preload("ToYear").Order("created_at DESC").Find(&ts).Error
	return ts, err
}

// CountActiveTransitionsForYear counts pending/in_progress transitions
// targeting the given year. Callers must run it inside the guard
// transaction with the year row locked.
func (r *Repository) countActiveTransitionsForYear(tx *gorm.DB, toYearID uint) (int64, error) {
	var count int64
	err := tx.Model(&AcademicYearTransition{}).
		Where("to_year_id = ? AND status IN (?, ?)", toYearID, TransitionPending, TransitionInProgress).
		Count(&count).Error
	return count, err
}

// CreateTransitionGuarded performs the §start_transition guard checks and
// status flip in a single transaction: from_year must be completed, no
// other active transition may target to_year.
func (r *Repository) CreateTransitionGuarded(fromYearID, toYearID, actorID uint) (*AcademicYearTransition, error) {
	var created *AcademicYearTransition
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var from, to AcademicYear
		if err := tx.First(&from, fromYearID).Error; err != nil {
			return err
		}
		// lock the target year row for the uniqueness check
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&to, toYearID).Error; err != nil {
			return err
		}

		if from.TransitionStatus != TransitionCompleted {
			return errFromYearNotCompleted
		}
		active, err := r.countActiveTransitionsForYear(tx, toYearID)
		if err != nil {
			return err
		}
		if active > 0 {
			return errTransitionAlreadyActive
		}

		now := time.Now()
		t := AcademicYearTransition{
			FromYearID:  fromYearID,
			ToYearID:    toYearID,
			Status:      TransitionInProgress,
			StartedAt:   &now,
			ProcessedBy: actorID,
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		if err := tx.Model(&AcademicYear{}).
			Where("id = ?", toYearID).
			Update("transition_status", TransitionInProgress).Error; err != nil {
			return err
		}
		created = &t
		return nil
	})
	return created, err
}

// MarkTransitionCompleted finishes the bookkeeping after a successful run.
// to_year becomes completed and current in the same transaction.
func (r *Repository) MarkTransitionCompleted(transitionID, toYearID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&AcademicYearTransition{}).
			Where("id = ?", transitionID).
			Updates(map[string]interface{}{
				"status":       TransitionCompleted,
				"completed_at": &now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&AcademicYear{}).
			Where("id = ?", toYearID).
			Update("transition_status", TransitionCompleted).Error; err != nil {
			return err
		}
		if err := tx.Model(&AcademicYear{}).
			Where("is_current = ? AND id <> ?", true, toYearID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		return tx.Model(&AcademicYear{}).
			Where("id = ?", toYearID).
			Update("is_current", true).Error
	})
}

// MarkTransitionFailed records the failure and rolls to_year back to
// pending so a retry can start.
func (r *Repository) MarkTransitionFailed(transitionID, toYearID uint, errorLog string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&AcademicYearTransition{}).
			Where("id = ?", transitionID).
			Updates(map[string]interface{}{
				"status":    TransitionFailed,
				"error_log": errorLog,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&AcademicYear{}).
			Where("id = ?", toYearID).
			Update("transition_status", TransitionPending).Error
	})
}
