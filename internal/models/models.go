package models

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// User - Someone who can log in and operate the system
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	FullName  string    `gorm:"size:100" json:"full_name"`
	CreatedAt time.Time `json:"created_at"`

	// 1:1, removed together with the user
	Credential *Credential `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Credential - Password hash + permission level, keyed by the user id.
// Never serialized: every field is hidden from JSON.
type Credential struct {
	UserID           uint   `gorm:"primaryKey" json:"-"`
	PasswordHash     string `gorm:"size:128;not null" json:"-"`
	PermissionsLevel int    `gorm:"not null;default:1" json:"-"`
}

// SetPassword replaces the stored hash with a bcrypt hash of plaintext.
func (c *Credential) SetPassword(plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hashed)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// An empty hash never matches.
func (c *Credential) CheckPassword(plaintext string) bool {
	if c == nil || c.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(plaintext)) == nil
}

// Category - Product grouping
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description string `json:"description"`
}

// Product - A sellable item; physical quantities live on Stock lots
type Product struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Brand          string `gorm:"size:255" json:"brand"`
	Description    string `json:"description"`
	WarrantyMonths *int   `json:"warranty_months"`
	CategoryID     uint   `gorm:"not null" json:"category_id"`
}

// Supplier - Where stock lots come from
type Supplier struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	Name           string              `gorm:"size:255;not null" json:"name"`
	ContactPerson  string              `gorm:"size:255" json:"contact_person"`
	Phone          string              `gorm:"size:20" json:"phone"`
	Email          string              `gorm:"size:120" json:"email"`
	Address        string              `json:"address"`
	AdditionalFees decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"additional_fees"`
}

// Stock - A receiving lot of a product from a supplier.
// Quantity never goes negative; only completed sales decrement it.
type Stock struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	ProductID         uint                `gorm:"not null" json:"product_id"`
	SupplierID        uint                `gorm:"not null" json:"supplier_id"`
	Location          string              `gorm:"size:255" json:"location"`
	Quantity          int                 `gorm:"not null" json:"quantity"`
	CostPrice         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"cost_price"`
	SellingPrice      decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"selling_price"`
	DepositedByUserID uint                `gorm:"not null" json:"deposited_by_user_id"`
	DepositedAt       time.Time           `json:"deposited_at"`
	ExpirationDate    *time.Time          `json:"expiration_date"`
}

// Client - Who we sell to
type Client struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Name               string              `gorm:"size:255;not null" json:"name"`
	ContactPhone       string              `gorm:"size:20" json:"contact_phone"`
	ContactEmail       string              `gorm:"size:120" json:"contact_email"`
	Address            string              `json:"address"`
	IsCreditClient     bool                `gorm:"not null;default:false" json:"is_credit_client"`
	CreditLimit        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"credit_limit"`
	CurrentMonthStatus string              `gorm:"size:50" json:"current_month_status"`

	Sales []Sale `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

// Sale - The transaction header
type Sale struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ClientID        uint            `gorm:"not null" json:"client_id"`
	UserID          uint            `gorm:"not null" json:"user_id"` // Salesperson
	SaleDate        time.Time       `json:"sale_date"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	DiscountApplied decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_applied"`
	PaymentMethod   string          `gorm:"size:50;not null" json:"payment_method"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
}

// SaleItem - One line of a sale, keyed by (sale, stock lot).
// UnitPriceAtSale is the lot's selling price snapshotted at sale time.
type SaleItem struct {
	SaleID          uint            `gorm:"primaryKey;autoIncrement:false" json:"sale_id"`
	StockID         uint            `gorm:"primaryKey;autoIncrement:false" json:"stock_id"`
	QuantitySold    int             `gorm:"not null" json:"quantity_sold"`
	UnitPriceAtSale decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price_at_sale"`
}
