package model

import "gorm.io/gorm"

type Account struct {
	gorm.Model
	Name       string `gorm:"index:idx_account_identity"`
	FirstName  string `gorm:"index:idx_account_identity"`
	SecretHash string `json:"-"`
}
