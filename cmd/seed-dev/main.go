// seed-dev loads the development dataset: the demo user (username: lucas),
// three bank accounts, three credit cards and the default category tree.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/contaslab/contas_backend/config"
	"github.com/contaslab/contas_backend/models"
	"github.com/contaslab/contas_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	demoUsername = "lucas"
	demoPassword = "123"
	demoName     = "Lucas"
	demoEmail    = "lucas@lucas.com"
)

type seedCategory struct {
	name     string
	catType  models.CategoryType
	icon     string
	color    string
	children []seedCategory
}

var categoryTree = []seedCategory{
	{name: "Salário", catType: models.CategoryTypeIncome, icon: "fas fa-wallet", color: "#4CAF50"},
	{name: "Alimentação", catType: models.CategoryTypeExpense, icon: "fas fa-utensils", color: "#FF0000", children: []seedCategory{
		{name: "Supermercado", icon: "fas fa-shopping-cart", color: "#E53935"},
		{name: "IFood", icon: "fas fa-pizza-slice", color: "#D32F2F"},
		{name: "Restaurante", icon: "fas fa-utensils", color: "#C62828"},
		{name: "Outros", icon: "fas fa-concierge-bell", color: "#B71C1C"},
	}},
	{name: "Casa", catType: models.CategoryTypeExpense, icon: "fas fa-home", color: "#2196F3", children: []seedCategory{
		{name: "DAE", icon: "fas fa-water", color: "#1976D2"},
		{name: "CPFL", icon: "fas fa-bolt", color: "#1565C0"},
		{name: "Internet/Celular", icon: "fas fa-wifi", color: "#0D47A1"},
		{name: "Seguro", icon: "fas fa-shield-alt", color: "#1E88E5"},
		{name: "Condomínio", icon: "fas fa-building", color: "#42A5F5"},
		{name: "IPTU", icon: "fas fa-file-invoice-dollar", color: "#64B5F6"},
		{name: "Manutenção", icon: "fas fa-tools", color: "#90CAF9"},
	}},
	{name: "Carro", catType: models.CategoryTypeExpense, icon: "fas fa-car", color: "#FFC107", children: []seedCategory{
		{name: "Combustivel", icon: "fas fa-gas-pump", color: "#FFB300"},
		{name: "Seguro", icon: "fas fa-shield-alt", color: "#FFA000"},
		{name: "IPVA", icon: "fas fa-file-invoice-dollar", color: "#FF8F00"},
		{name: "Manutenção", icon: "fas fa-tools", color: "#FF6F00"},
	}},
	{name: "Pais", catType: models.CategoryTypeExpense, icon: "fas fa-user-friends", color: "#8E24AA", children: []seedCategory{
		{name: "Farmácia", icon: "fas fa-prescription-bottle-alt", color: "#AB47BC"},
		{name: "Consultas Médicas", icon: "fas fa-stethoscope", color: "#9C27B0"},
		{name: "Gastos Esseciais", icon: "fas fa-shopping-basket", color: "#7B1FA2"},
		{name: "Gastos", icon: "fas fa-money-bill-wave", color: "#6A1B9A"},
	}},
	{name: "Filhos", catType: models.CategoryTypeExpense, icon: "fas fa-child", color: "#43A047", children: []seedCategory{
		{name: "Farmácia", icon: "fas fa-prescription-bottle-alt", color: "#66BB6A"},
		{name: "Consultas Médicas", icon: "fas fa-stethoscope", color: "#4CAF50"},
		{name: "Plano de Saúde", icon: "fas fa-heartbeat", color: "#388E3C"},
		{name: "Escola", icon: "fas fa-school", color: "#2E7D32"},
		{name: "Atividades Extras", icon: "fas fa-futbol", color: "#1B5E20"},
		{name: "Gastos Esseciais", icon: "fas fa-shopping-basket", color: "#81C784"},
		{name: "Gastos", icon: "fas fa-money-bill-wave", color: "#A5D6A7"},
	}},
	{name: "Cachorros", catType: models.CategoryTypeExpense, icon: "fas fa-dog", color: "#FF5722", children: []seedCategory{
		{name: "Veterinário", icon: "fas fa-briefcase-medical", color: "#F4511E"},
		{name: "Ração", icon: "fas fa-bone", color: "#E64A19"},
		{name: "Banho", icon: "fas fa-shower", color: "#D84315"},
		{name: "Gastos Esseciais", icon: "fas fa-shopping-basket", color: "#BF360C"},
		{name: "Gastos", icon: "fas fa-money-bill-wave", color: "#FF8A65"},
	}},
	{name: "Serviços", catType: models.CategoryTypeExpense, icon: "fas fa-concierge-bell", color: "#9E9D24", children: []seedCategory{
		{name: "Faxina", icon: "fas fa-broom", color: "#AFB42B"},
		{name: "Jardinagem", icon: "fas fa-seedling", color: "#9E9D24"},
		{name: "Baba", icon: "fas fa-baby", color: "#827717"},
		{name: "Uber", icon: "fas fa-taxi", color: "#C0CA33"},
	}},
	{name: "Assinaturas", catType: models.CategoryTypeExpense, icon: "fas fa-file-contract", color: "#3F51B5", children: []seedCategory{
		{name: "Spotify", icon: "fab fa-spotify", color: "#5C6BC0"},
		{name: "Prime", icon: "fab fa-amazon", color: "#3F51B5"},
		{name: "OpenAPi", icon: "fas fa-robot", color: "#3949AB"},
		{name: "Github", icon: "fab fa-github", color: "#303F9F"},
		{name: "Google Cloud", icon: "fab fa-google", color: "#283593"},
		{name: "ICloud", icon: "fab fa-apple", color: "#1A237E"},
		{name: "Outros", icon: "fas fa-file-contract", color: "#7986CB"},
	}},
	{name: "Viagem", catType: models.CategoryTypeExpense, icon: "fas fa-suitcase-rolling", color: "#795548", children: []seedCategory{
		{name: "Caixinha", icon: "fas fa-piggy-bank", color: "#8D6E63"},
		{name: "Passagem", icon: "fas fa-plane", color: "#795548"},
		{name: "Hospedagem", icon: "fas fa-hotel", color: "#6D4C41"},
		{name: "Alimentação", icon: "fas fa-utensils", color: "#5D4037"},
		{name: "Passeios", icon: "fas fa-map-marked-alt", color: "#4E342E"},
		{name: "Compras", icon: "fas fa-shopping-bag", color: "#3E2723"},
		{name: "Transporte", icon: "fas fa-bus", color: "#A1887F"},
		{name: "Outros", icon: "fas fa-suitcase-rolling", color: "#BCAAA4"},
	}},
	{name: "Lazer", catType: models.CategoryTypeExpense, icon: "fas fa-glass-cheers", color: "#E91E63", children: []seedCategory{
		{name: "Encontros", icon: "fas fa-heart", color: "#EC407A"},
		{name: "Passeio em Família", icon: "fas fa-users", color: "#D81B60"},
		{name: "Sair com Amigos", icon: "fas fa-beer", color: "#C2185B"},
	}},
	{name: "Outras Entradas", catType: models.CategoryTypeIncome, icon: "fas fa-plus-circle", color: "#4CAF50"},
	{name: "Outras Saídas", catType: models.CategoryTypeExpense, icon: "fas fa-minus-circle", color: "#F44336"},
	{name: "Banco", catType: models.CategoryTypeExpense, icon: "fas fa-university", color: "#FF5722", children: []seedCategory{
		{name: "Tarifa Cartão", icon: "fas fa-credit-card", color: "#F4511E"},
		{name: "Tarifa Conta", icon: "fas fa-university", color: "#E64A19"},
		{name: "Juros", icon: "fas fa-percentage", color: "#D84315"},
		{name: "Impostos", icon: "fas fa-file-invoice-dollar", color: "#BF360C"},
		{name: "SimplesNacional", icon: "fas fa-file-invoice", color: "#FF7043"},
		{name: "Seguro", icon: "fas fa-shield-alt", color: "#FF8A65"},
	}},
}

// Monthly limits for the root expense categories, seeded for the current
// month so the budget screen shows data right after login.
var budgetLimits = map[string]string{
	"Alimentação": "2500.00",
	"Casa":        "3200.00",
	"Carro":       "1500.00",
	"Pais":        "1200.00",
	"Filhos":      "2800.00",
	"Cachorros":   "600.00",
	"Serviços":    "900.00",
	"Assinaturas": "350.00",
	"Viagem":      "1000.00",
	"Lazer":       "800.00",
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fatal("database not initialized (config.GetDB returned nil). Set DB_* env vars.")
	}
	models.MigrateTable()

	var existing models.User
	err := db.Where("username = ?", demoUsername).First(&existing).Error
	if err == nil {
		fmt.Printf("Demo user %q already exists (id=%d); nothing to do\n", demoUsername, existing.ID)
		return
	}
	if err != gorm.ErrRecordNotFound {
		fatal("failed to lookup user: %v", err)
	}

	hashed, err := utils.HashPassword(demoPassword)
	if err != nil {
		fatal("failed to hash password: %v", err)
	}

	user := models.User{
		Name:     demoName,
		Email:    demoEmail,
		Username: demoUsername,
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		fatal("failed to create user: %v", err)
	}

	accounts := []models.Account{
		{UserId: user.ID, Name: "Conta Corrente Santander", Bank: models.BankSantander, Balance: decimal.Zero},
		{UserId: user.ID, Name: "Conta Corrente NuBank", Bank: models.BankNubank, Balance: decimal.Zero},
		{UserId: user.ID, Name: "Carteira Digital C6 Bank", Bank: models.BankC6Bank, Balance: decimal.Zero},
	}
	for i := range accounts {
		if err := db.Create(&accounts[i]).Error; err != nil {
			fatal("failed to create account %q: %v", accounts[i].Name, err)
		}
	}

	limit := func(value string) *decimal.Decimal {
		d, _ := decimal.NewFromString(value)
		return &d
	}
	cards := []models.Card{
		{UserId: user.ID, AccountId: accounts[0].ID, Name: "Santander Unique", Brand: models.BrandVisa, CloseDay: 14, DueDay: 21, CreditLimit: limit("30500.00")},
		{UserId: user.ID, AccountId: accounts[1].ID, Name: "Nubank Ultravioleta", Brand: models.BrandMastercard, CloseDay: 21, DueDay: 28, CreditLimit: limit("30600.00")},
		{UserId: user.ID, AccountId: accounts[2].ID, Name: "C6 Carbon", Brand: models.BrandMastercard, CloseDay: 14, DueDay: 20, CreditLimit: limit("11000.00")},
	}
	for i := range cards {
		if err := db.Create(&cards[i]).Error; err != nil {
			fatal("failed to create card %q: %v", cards[i].Name, err)
		}
	}

	categoryCount := 0
	budgetCount := 0
	now := time.Now()
	budgetMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, parent := range categoryTree {
		root := models.Category{
			UserId: user.ID,
			Name:   parent.name,
			Type:   parent.catType,
			Icon:   parent.icon,
			Color:  parent.color,
		}
		if err := db.Create(&root).Error; err != nil {
			fatal("failed to create category %q: %v", parent.name, err)
		}
		categoryCount++
		if value, ok := budgetLimits[parent.name]; ok {
			limitValue, _ := decimal.NewFromString(value)
			budget := models.Budget{
				UserId:     user.ID,
				CategoryId: root.ID,
				LimitValue: limitValue,
				Month:      budgetMonth,
			}
			if err := db.Create(&budget).Error; err != nil {
				fatal("failed to create budget for %q: %v", parent.name, err)
			}
			budgetCount++
		}
		for _, child := range parent.children {
			sub := models.Category{
				UserId:   user.ID,
				Name:     child.name,
				Type:     parent.catType,
				Icon:     child.icon,
				Color:    child.color,
				ParentId: &root.ID,
			}
			if err := db.Create(&sub).Error; err != nil {
				fatal("failed to create category %q: %v", child.name, err)
			}
			categoryCount++
		}
	}

	fmt.Printf("Seeded user %q with %d accounts, %d cards, %d categories and %d budgets\n",
		demoUsername, len(accounts), len(cards), categoryCount, budgetCount)
}
