package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"atelier/internal/domain/model"
	"atelier/internal/repository"
)

// 住所系で存在しないことを表す（Handlerが404に変換する）
var ErrNotFound = errors.New("not found")

type AddressDTO struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Country   string  `json:"country"`
	IsDefault bool    `json:"is_default"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// 作成・更新で共通の入力
type AddressRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

func (r AddressRequest) valid() bool {
	return strings.TrimSpace(r.FirstName) != "" &&
		strings.TrimSpace(r.Address) != "" &&
		strings.TrimSpace(r.City) != "" &&
		strings.TrimSpace(r.State) != "" &&
		strings.TrimSpace(r.ZipCode) != ""
}

func (r AddressRequest) toModel() model.Address {
	country := strings.TrimSpace(r.Country)
	if country == "" {
		country = "India"
	}
	return model.Address{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		Line1:     strings.TrimSpace(r.Address),
		City:      strings.TrimSpace(r.City),
		State:     strings.TrimSpace(r.State),
		ZipCode:   strings.TrimSpace(r.ZipCode),
		Country:   country,
	}
}

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID string) ([]AddressDTO, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID string, req AddressRequest) (AddressDTO, error) {
	if userID == "" {
		return AddressDTO{}, ErrUnauthorized
	}

	//入力チェック
	if !req.valid() {
		return AddressDTO{}, ErrValidation
	}

	a := req.toModel()
	a.UserID = userID

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressDTO{}, ErrInternal
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID string, addressID string, req AddressRequest) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if addressID == "" || !req.valid() {
		return ErrValidation
	}

	//所有チェック（本人のみ）
	if err := u.checkOwner(ctx, userID, addressID); err != nil {
		return err
	}

	a := req.toModel()
	a.ID = addressID
	a.UpdatedAt = time.Now()

	if err := u.addresses.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID string, addressID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if addressID == "" {
		return ErrValidation
	}

	if err := u.checkOwner(ctx, userID, addressID); err != nil {
		return err
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		//注文が参照中などで削除できない 409
		return ErrConflict
	}

	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID string, addressID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if addressID == "" {
		return ErrValidation
	}

	if err := u.checkOwner(ctx, userID, addressID); err != nil {
		return err
	}

	//user内でdefaultは1つ
	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	return nil
}

// 存在しなければ404、他人のものなら403
func (u *AddressUsecase) checkOwner(ctx context.Context, userID, addressID string) error {
	a, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return ErrInternal
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	return nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	dto := AddressDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Address:   a.Line1,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
		Country:   a.Country,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	t := a.UpdatedAt.Format(time.RFC3339)
	dto.UpdatedAt = &t
	return dto
}
