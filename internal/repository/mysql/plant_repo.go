package mysql

import (
	"context"

	"Care_Club/internal/model"

	"gorm.io/gorm"
)

type PlantRepository struct {
	DB *gorm.DB
}

func NewPlantRepository() *PlantRepository {
	return &PlantRepository{DB: DB}
}

func (r *PlantRepository) FindByID(ctx context.Context, id uint64) (*model.Plant, error) {
	var plant model.Plant
	err := r.DB.WithContext(ctx).First(&plant, id).Error
	if err != nil {
		return nil, err
	}
	return &plant, nil
}

func (r *PlantRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Plant, error) {
	out := make(map[uint64]model.Plant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var plants []model.Plant
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&plants).Error; err != nil {
		return nil, err
	}
	for _, p := range plants {
		out[p.ID] = p
	}
	return out, nil
}
