package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

type ConstructionRepository struct {
	db *gorm.DB
}

func NewConstructionRepository(db *gorm.DB) *ConstructionRepository {
	return &ConstructionRepository{db: db}
}

const constructionColumns = `
	id,
	project_id,
	contractor_id,
	work_name,
	progress,
	start_date,
	end_date,
	status,
	created_at,
	updated_at`

func (r *ConstructionRepository) ListByProject(ctx context.Context, projectID int) ([]model.ConstructionDetail, error) {
	var details []model.ConstructionDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+constructionColumns+`
		FROM construction_details
		WHERE project_id = ?
		ORDER BY id ASC
	`, projectID).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *ConstructionRepository) Get(ctx context.Context, id int) (*model.ConstructionDetail, error) {
	var detail model.ConstructionDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+constructionColumns+`
		FROM construction_details
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&detail).Error
	if err != nil {
		return nil, err
	}
	if detail.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &detail, nil
}

func (r *ConstructionRepository) Create(ctx context.Context, detail model.ConstructionDetail) (*model.ConstructionDetail, error) {
	var saved model.ConstructionDetail
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO construction_details (project_id, contractor_id, work_name, progress, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING`+constructionColumns,
		detail.ProjectID, detail.ContractorID, detail.WorkName, detail.Progress,
		detail.StartDate, detail.EndDate, detail.Status,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ConstructionRepository) Update(ctx context.Context, detail model.ConstructionDetail) (*model.ConstructionDetail, error) {
	var saved model.ConstructionDetail
	err := r.db.WithContext(ctx).Raw(`
		UPDATE construction_details
		SET
			contractor_id = ?,
			work_name = ?,
			progress = ?,
			start_date = ?,
			end_date = ?,
			status = ?,
			updated_at = NOW()
		WHERE id = ?
		RETURNING`+constructionColumns,
		detail.ContractorID, detail.WorkName, detail.Progress,
		detail.StartDate, detail.EndDate, detail.Status, detail.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	if saved.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}
