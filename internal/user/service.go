package user

import "golang.org/x/crypto/bcrypt"

// ServiceInterface lets other packages depend on the user service without
// pulling in its concrete type.
type ServiceInterface interface {
	GetByID(id int) (User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(page, limit int, search string) ([]User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(page, limit, search)
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Update(id int, user User) (User, error) {
	return s.repo.Update(id, user)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) Register(user User) (User, error) {
	if _, err := s.repo.GetByEmail(user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user.Password = string(hashed)
	return s.repo.Create(user)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if user.IsLocked {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// FindOrCreateByEmail backs the OAuth callback: a first-time Google login
// creates an account without a usable password.
func (s *Service) FindOrCreateByEmail(email, fullName, now string) (User, error) {
	existing, err := s.repo.GetByEmail(email)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		return User{}, err
	}

	return s.repo.Create(User{
		Email:     email,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// SetLocked flips the account lock flag (admin action).
func (s *Service) SetLocked(id int, locked bool) (User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}
	u.IsLocked = locked
	return s.repo.Update(id, u)
}

// SetAdmin grants or revokes the admin role (admin action).
func (s *Service) SetAdmin(id int, admin bool) (User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}
	u.IsAdmin = admin
	return s.repo.Update(id, u)
}
