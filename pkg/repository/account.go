package repository

import (
	"context"

	"droscher.com/WineCellar/pkg/model"
)

type AccountRepository interface {
	AddAccount(ctx context.Context, name string, firstName string, secretHash string) (*model.Account, error)
	FindAccountsByIdentity(ctx context.Context, name string, firstName string) ([]*model.Account, error)
	GetAccountByID(ctx context.Context, accountID uint) (*model.Account, error)
}

func (r *Repository) AddAccount(ctx context.Context, name string, firstName string, secretHash string) (*model.Account, error) {
	account := model.Account{
		Name:       name,
		FirstName:  firstName,
		SecretHash: secretHash,
	}

	if result := r.DB.WithContext(ctx).Create(&account); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &account, nil
}

func (r *Repository) FindAccountsByIdentity(ctx context.Context, name string, firstName string) ([]*model.Account, error) {
	var accounts []*model.Account

	result := r.DB.WithContext(ctx).
		Where("name = ? AND first_name = ?", name, firstName).
		Order("id").
		Find(&accounts)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return accounts, nil
}

func (r *Repository) GetAccountByID(ctx context.Context, accountID uint) (*model.Account, error) {
	var account model.Account

	result := r.DB.WithContext(ctx).First(&account, accountID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return &account, nil
}
