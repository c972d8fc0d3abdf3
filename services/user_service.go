package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

// Every new user gets the default permission and groups below.
const DefaultUserPermission = "view_user"

var DefaultGroups = []string{"Orders", "Payments", "Tables"}

// UserService menangani akun staf.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserFields are the values accepted on user creation.
type UserFields struct {
	Username       string
	FirstName      string
	LastName       string
	Email          string
	Password       string
	RepeatPassword string
	IsStaff        bool
	IsSuperuser    bool
}

// UserPatch carries the updatable fields of a user.
type UserPatch struct {
	Username  *string
	FirstName *string
	LastName  *string
	Email     *string
	IsActive  *bool
	IsStaff   *bool
}

// Create registers a user, hashes the password, and assigns the default
// permission and groups inside one transaction.
func (s *UserService) Create(requestUser *models.User, fields UserFields) (*models.User, error) {
	if fields.Password != fields.RepeatPassword {
		return nil, utils.NewValidationError("password", "Password does not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    fields.Username,
		FirstName:   fields.FirstName,
		LastName:    fields.LastName,
		Email:       fields.Email,
		Password:    string(hashed),
		IsActive:    true,
		IsStaff:     fields.IsStaff,
		IsSuperuser: fields.IsSuperuser,
		CreatedByID: &requestUser.ID,
		UpdatedByID: &requestUser.ID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		var permission models.Permission
		if err := tx.First(&permission, "codename = ?", DefaultUserPermission).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Association("Permissions").Append(&permission); err != nil {
			return err
		}

		var groups []models.Group
		if err := tx.Where("name IN ?", DefaultGroups).Find(&groups).Error; err != nil {
			return err
		}
		return tx.Model(user).Association("Groups").Append(&groups)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("User %s created by %s", user.Username, requestUser.Username)
	return user, nil
}

// Update edits a user. Only a superuser may modify another superuser.
func (s *UserService) Update(requestUser *models.User, userID uint, patch UserPatch) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if !requestUser.IsSuperuser && user.IsSuperuser {
		return nil, utils.NewValidationError("user", "Only a superuser can update another superuser.")
	}

	changed := map[string]interface{}{}
	if patch.Username != nil && *patch.Username != user.Username {
		user.Username = *patch.Username
		changed["username"] = user.Username
	}
	if patch.FirstName != nil && *patch.FirstName != user.FirstName {
		user.FirstName = *patch.FirstName
		changed["first_name"] = user.FirstName
	}
	if patch.LastName != nil && *patch.LastName != user.LastName {
		user.LastName = *patch.LastName
		changed["last_name"] = user.LastName
	}
	if patch.Email != nil && *patch.Email != user.Email {
		user.Email = *patch.Email
		changed["email"] = user.Email
	}
	if patch.IsActive != nil && *patch.IsActive != user.IsActive {
		user.IsActive = *patch.IsActive
		changed["is_active"] = user.IsActive
	}
	if patch.IsStaff != nil && *patch.IsStaff != user.IsStaff {
		user.IsStaff = *patch.IsStaff
		changed["is_staff"] = user.IsStaff
	}

	if len(changed) == 0 {
		return user, nil
	}

	user.UpdatedByID = &requestUser.ID
	changed["updated_by_id"] = requestUser.ID
	if err := s.db.Model(user).Updates(changed).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns users filtered by activation. Only a superuser can see
// other superusers.
func (s *UserService) List(requestUser *models.User, filterBy string) ([]models.User, error) {
	query := s.db.Model(&models.User{})
	if !requestUser.IsSuperuser {
		query = query.Where("is_superuser = ?", false)
	}

	switch filterBy {
	case "actives":
		query = query.Where("is_active = ?", true)
	case "inactives":
		query = query.Where("is_active = ?", false)
	}

	var users []models.User
	if err := query.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Authenticate checks the credentials and returns the matching active user.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !user.IsActive {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return &user, nil
}

// HasPermission reports whether the user holds a permission codename,
// directly or by being a superuser.
func (s *UserService) HasPermission(userID uint, codename string) (bool, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return false, err
	}
	if user.IsSuperuser {
		return true, nil
	}

	var count int64
	err := s.db.Table("user_permissions").
		Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ? AND permissions.codename = ?", userID, codename).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
