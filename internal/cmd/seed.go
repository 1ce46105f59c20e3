package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atelier/internal/domain/model"
	"atelier/internal/domain/orderno"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo catalog, users and orders",
	Long: `Populate the database with fabrics, design models and products, an admin
account and a demo shopper.

Some of the shopper orders are deliberately dummy (DEMO- numbers, zero totals,
demo@example.* owner) so the storefront and admin listings have rows to hide.
Running seed twice does not duplicate catalog rows or users.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@atelier.in", "admin account email")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "admin-password", "admin account password")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	_, log, gdb, err := bootstrap()
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seedAll(tx, log)
	})
}

func seedAll(tx *gorm.DB, log logrus.FieldLogger) error {
	fabrics := []model.Fabric{
		{Name: "Banarasi Silk", Color: "#8B0000", Material: "silk", Price: decimal.RequireFromString("1200"), IsActive: true},
		{Name: "Chanderi Cotton", Color: "#F5DEB3", Material: "cotton", Price: decimal.RequireFromString("450"), IsActive: true},
		{Name: "Georgette", Color: "#191970", Material: "georgette", Price: decimal.RequireFromString("650"), IsActive: true},
	}
	for i := range fabrics {
		if err := tx.Where(model.Fabric{Name: fabrics[i].Name}).FirstOrCreate(&fabrics[i]).Error; err != nil {
			return fmt.Errorf("seed fabric %s: %w", fabrics[i].Name, err)
		}
	}

	designs := []model.DesignModel{
		{Name: "Sweetheart Neck", Category: model.CategoryBlouse, Side: model.SideFront, Price: decimal.RequireFromString("350"), IsActive: true},
		{Name: "Boat Neck", Category: model.CategoryBlouse, Side: model.SideFront, Price: decimal.RequireFromString("300"), IsActive: true},
		{Name: "Deep U Back", Category: model.CategoryBlouse, Side: model.SideBack, Price: decimal.RequireFromString("400"), IsActive: true},
		{Name: "Keyhole Back", Category: model.CategoryBlouse, Side: model.SideBack, Price: decimal.RequireFromString("250"), IsActive: true},
		{Name: "Mandarin Collar", Category: model.CategorySalwarKameez, Side: model.SideFront, Price: decimal.RequireFromString("300"), IsActive: true},
		{Name: "Plain Back", Category: model.CategorySalwarKameez, Side: model.SideBack, Price: decimal.RequireFromString("150"), IsActive: true},
	}
	for i := range designs {
		d := designs[i]
		if err := tx.Where(model.DesignModel{Name: d.Name, Category: d.Category, Side: d.Side}).FirstOrCreate(&designs[i]).Error; err != nil {
			return fmt.Errorf("seed design model %s: %w", d.Name, err)
		}
	}

	products := []model.Product{
		{Name: "Zari Border Lehenga", Description: "Hand-finished lehenga with zari border", Category: model.CategoryLehenga, Price: decimal.RequireFromString("8999"), Stock: 12, IsActive: true},
		{Name: "Ready Silk Blouse", Description: "Stitched silk blouse, standard sizes", Category: model.CategoryBlouse, Price: decimal.RequireFromString("1499"), Stock: 40, IsActive: true},
		{Name: "Cotton Salwar Set", Description: "Everyday cotton salwar kameez", Category: model.CategorySalwarKameez, Price: decimal.RequireFromString("2199"), Stock: 25, IsActive: true},
	}
	for i := range products {
		if err := tx.Where(model.Product{Name: products[i].Name}).FirstOrCreate(&products[i]).Error; err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
	}

	admin, err := seedUser(tx, seedAdminEmail, "Atelier Admin", seedAdminPassword, model.RoleAdmin)
	if err != nil {
		return err
	}
	shopper, err := seedUser(tx, "priya.shopper@gmail.com", "Priya", "shopper-password", model.RoleUser)
	if err != nil {
		return err
	}
	demo, err := seedUser(tx, "demo@example.com", "Demo", "demo-password", model.RoleUser)
	if err != nil {
		return err
	}

	created, err := seedOrders(tx, shopper, demo, products[1])
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"fabrics":  len(fabrics),
		"models":   len(designs),
		"products": len(products),
		"admin":    admin.Email,
		"orders":   created,
	}).Info("seed completed")
	return nil
}

func seedUser(tx *gorm.DB, email, name, password string, role model.Role) (model.User, error) {
	var u model.User
	err := tx.Where("email = ?", email).First(&u).Error
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, fmt.Errorf("find user %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	u = model.User{Email: email, Name: name, PasswordHash: string(hash), Role: role, IsActive: true}
	if err := tx.Create(&u).Error; err != nil {
		return model.User{}, fmt.Errorf("create user %s: %w", email, err)
	}
	return u, nil
}

// 本物1件と、一覧から隠れるはずの注文を作る。既に注文があれば何もしない
func seedOrders(tx *gorm.DB, shopper, demo model.User, p model.Product) (int, error) {
	var existing int64
	if err := tx.Model(&model.Order{}).Where("user_id IN ?", []string{shopper.ID, demo.ID}).Count(&existing).Error; err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	now := time.Now()
	two := decimal.NewFromInt(2)
	subtotal := p.Price.Mul(two)

	orders := []struct {
		owner  model.User
		number string
		total  decimal.Decimal
		items  bool
	}{
		{shopper, orderno.FromTime(now), subtotal, true},
		{shopper, "DEMO-000001", subtotal, true},
		{shopper, "ORD-000000", subtotal, true},
		{shopper, orderno.FromTime(now.Add(-time.Hour)), decimal.Zero, true},
		{shopper, orderno.FromTime(now.Add(-2 * time.Hour)), subtotal, false},
		{demo, orderno.FromTime(now.Add(-3 * time.Hour)), subtotal, true},
	}

	for _, o := range orders {
		order := model.Order{
			OrderNumber:   o.number,
			UserID:        o.owner.ID,
			Status:        model.OrderStatusPending,
			Subtotal:      subtotal,
			Total:         o.total,
			PaymentMethod: model.PaymentMethodCOD,
			PaymentStatus: model.PaymentStatusPending,
		}
		if o.items {
			order.Items = []model.OrderItem{{ProductID: p.ID, Quantity: 2, Price: p.Price}}
		}
		if err := tx.Create(&order).Error; err != nil {
			return 0, fmt.Errorf("create order %s: %w", o.number, err)
		}
	}
	return len(orders), nil
}
