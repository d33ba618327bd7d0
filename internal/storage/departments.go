package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"urbaniq/backend/internal/models"
)

// SeedDepartments inserts the fixed department set, skipping names
// that already exist.
func (s *Service) SeedDepartments(names []string) error {
	for _, name := range names {
		dept := models.Department{Name: name}
		if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&dept).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListDepartments() ([]models.Department, error) {
	var departments []models.Department
	err := s.DB.Order("name").Find(&departments).Error
	return departments, err
}

func (s *Service) GetDepartmentByID(id uint) (*models.Department, error) {
	var dept models.Department
	err := s.DB.First(&dept, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (s *Service) GetDepartmentByName(name string) (*models.Department, error) {
	var dept models.Department
	err := s.DB.Where("name = ?", name).First(&dept).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// DeleteDepartment refuses to remove a department that complaints or
// authority profiles still reference.
func (s *Service) DeleteDepartment(id uint) error {
	var count int64
	if err := s.DB.Model(&models.Complaint{}).Where("assigned_department_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProtected
	}
	if err := s.DB.Model(&models.AuthorityProfile{}).Where("department_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProtected
	}
	res := s.DB.Delete(&models.Department{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CreateAuthorityProfile(profile *models.AuthorityProfile) error {
	return s.DB.Create(profile).Error
}

func (s *Service) GetAuthorityProfileByUserID(userID uint) (*models.AuthorityProfile, error) {
	var profile models.AuthorityProfile
	err := s.DB.Preload("Department").Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
