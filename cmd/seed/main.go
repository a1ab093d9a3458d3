package main

import (
	"github.com/projectstore/internal/config"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{
			Name:        "Tecnología",
			Slug:        "tecnologia",
			Description: "Audio, cómputo y accesorios electrónicos",
			IsActive:    true,
		},
		{
			Name:        "Hogar",
			Slug:        "hogar",
			Description: "Artículos para la casa y la cocina",
			IsActive:    true,
		},
		{
			Name:        "Deportes",
			Slug:        "deportes",
			Description: "Equipamiento y ropa deportiva",
			IsActive:    true,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"tecnologia", "hogar", "deportes"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	tecnologiaID := categoryIDs["tecnologia"]
	hogarID := categoryIDs["hogar"]
	deportesID := categoryIDs["deportes"]

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  tecnologiaID,
			Name:        "Audífonos Bluetooth",
			Slug:        "audifonos-bluetooth",
			Description: "Audífonos inalámbricos con cancelación de ruido y 24 horas de batería.",
			SKU:         "TEC-0001",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(189900)),
			Discount:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			Stock:       40,
			MinStock:    5,
			Brand:       "SoundMax",
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			Features: models.StringArray([]string{"Bluetooth 5.0", "Cancelación de ruido", "24h de batería"}),
			Tags:     models.StringArray([]string{"audio", "inalámbrico"}),
			Active:   true,
			Featured: true,
		},
		{
			CategoryID:  tecnologiaID,
			Name:        "Teclado Mecánico",
			Slug:        "teclado-mecanico",
			Description: "Teclado mecánico retroiluminado con switches rojos.",
			SKU:         "TEC-0002",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(259900)),
			Stock:       25,
			MinStock:    5,
			Brand:       "KeyPro",
			Features:    models.StringArray([]string{"Switches rojos", "RGB", "Cable desmontable"}),
			Tags:        models.StringArray([]string{"teclado", "gaming"}),
			Active:      true,
			Recommended: true,
		},
		{
			CategoryID:  hogarID,
			Name:        "Cafetera de Prensa Francesa",
			Slug:        "cafetera-prensa-francesa",
			Description: "Cafetera de vidrio borosilicato de 600 ml para café filtrado.",
			SKU:         "HOG-0001",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(79900)),
			Discount:    models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			Stock:       60,
			MinStock:    10,
			Brand:       "CasaViva",
			Tags:        models.StringArray([]string{"café", "cocina"}),
			Active:      true,
			Featured:    true,
		},
		{
			CategoryID:  deportesID,
			Name:        "Balón de Fútbol Profesional",
			Slug:        "balon-futbol-profesional",
			Description: "Balón número 5 cosido a máquina, uso en cancha sintética o césped.",
			SKU:         "DEP-0001",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(119900)),
			Stock:       35,
			MinStock:    5,
			Brand:       "GolPlus",
			Tags:        models.StringArray([]string{"fútbol", "balón"}),
			Active:      true,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 演示客户账号
	seedDemoClient(stdLog.Printf)

	stdLog.Printf("Seed finished")
}

func seedDemoClient(printf func(format string, v ...interface{})) {
	const demoEmail = "cliente@demo.local"
	var existing models.User
	if err := models.DB.Where("email = ?", demoEmail).First(&existing).Error; err == nil {
		printf("Demo client already exists: %s", demoEmail)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("cliente123"), bcrypt.DefaultCost)
	if err != nil {
		printf("Failed to hash demo client password: %v", err)
		return
	}
	user := models.User{
		Email:        demoEmail,
		PasswordHash: string(hash),
		Name:         "Cliente Demo",
		Role:         "client",
		City:         "Bogotá",
		Department:   "Cundinamarca",
		IsActive:     true,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		printf("Failed to create demo client: %v", err)
		return
	}
	printf("Created demo client: %s", demoEmail)
}
