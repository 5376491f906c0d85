package repo

import "github.com/stockflow/inventory-api/internal/models"

type UserRepository interface {
	Create(u models.User) (models.User, error)
	GetByID(id int) (models.User, error)
	GetByUsername(username string) (models.User, error)
	GetByEmail(email string) (models.User, error)
	Update(u models.User) (models.User, error)
	Delete(id int) error
	List(offset, limit int) ([]models.User, int, error)
}
