package database

import (
	"github.com/Uday261104/lms-v2/model"
	"gorm.io/gorm"
)

// EnsureRoles creates the fixed role groups if they do not exist yet.
// Safe to call on every startup.
func EnsureRoles(db *gorm.DB) error {
	for _, name := range []string{model.RoleStudent, model.RoleCreator, model.RoleAdmin} {
		role := model.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
