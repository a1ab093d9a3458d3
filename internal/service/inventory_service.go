package service

import (
	"strings"

	"github.com/projectstore/internal/constants"
	"github.com/projectstore/internal/logger"
	"github.com/projectstore/internal/models"
	"github.com/projectstore/internal/queue"
	"github.com/projectstore/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存业务服务
type InventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	queueClient  *queue.Client
}

// NewInventoryService 创建库存服务
func NewInventoryService(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	queueClient *queue.Client,
) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		queueClient:  queueClient,
	}
}

// AdjustInput 库存调整输入。
// in 入库、out 出库按数量增减，adjustment 直接设为目标库存。
type AdjustInput struct {
	ProductID uint
	Type      string
	Quantity  int
	Reason    string
}

// Adjust 人工调整库存并记流水
func (s *InventoryService) Adjust(input AdjustInput, operatorID uint) (*models.StockMovement, error) {
	movementType := strings.ToLower(strings.TrimSpace(input.Type))
	switch movementType {
	case constants.StockMovementIn, constants.StockMovementOut, constants.StockMovementAdjustment:
	default:
		// sale/return 流水只由订单流程产生
		return nil, ErrInvalidMovementType
	}

	var movement *models.StockMovement
	err := s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		movementRepo := s.movementRepo.WithTx(tx)

		product, err := productRepo.GetByID(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		stockBefore := product.Stock
		var stockAfter int
		var delta int
		switch movementType {
		case constants.StockMovementIn:
			if input.Quantity <= 0 {
				return ErrInvalidQuantity
			}
			delta = input.Quantity
			stockAfter = stockBefore + delta
			if _, err := productRepo.IncrementStock(product.ID, delta); err != nil {
				return err
			}
		case constants.StockMovementOut:
			if input.Quantity <= 0 {
				return ErrInvalidQuantity
			}
			delta = -input.Quantity
			stockAfter = stockBefore - input.Quantity
			affected, err := productRepo.DecrementStock(product.ID, input.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		case constants.StockMovementAdjustment:
			if input.Quantity < 0 {
				return ErrStockWouldGoNegative
			}
			stockAfter = input.Quantity
			delta = stockAfter - stockBefore
			if delta == 0 {
				return ErrInvalidQuantity
			}
			if delta > 0 {
				if _, err := productRepo.IncrementStock(product.ID, delta); err != nil {
					return err
				}
			} else {
				affected, err := productRepo.DecrementStock(product.ID, -delta)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrInsufficientStock
				}
			}
		}

		movement = &models.StockMovement{
			ProductID:   product.ID,
			Type:        movementType,
			Quantity:    delta,
			StockBefore: stockBefore,
			StockAfter:  stockAfter,
			Reason:      strings.TrimSpace(input.Reason),
			CreatedBy:   &operatorID,
		}
		if err := movementRepo.Create(movement); err != nil {
			return err
		}

		if stockAfter <= product.MinStock {
			s.notifyLowStock(product.ID, stockAfter, product.MinStock)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("stock_adjusted",
		"product_id", input.ProductID,
		"type", movementType,
		"quantity", movement.Quantity,
		"stock_after", movement.StockAfter,
	)
	return movement, nil
}

// ListMovements 库存流水列表
func (s *InventoryService) ListMovements(filter repository.StockMovementListFilter) ([]models.StockMovement, int64, error) {
	return s.movementRepo.List(filter)
}

// ListLowStock 低库存商品列表
func (s *InventoryService) ListLowStock(page, pageSize int) ([]models.Product, int64, error) {
	return s.productRepo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		LowStock: true,
	})
}

func (s *InventoryService) notifyLowStock(productID uint, stock, minStock int) {
	if err := s.queueClient.EnqueueLowStockAlert(queue.LowStockAlertPayload{
		ProductID: productID,
		Stock:     stock,
		MinStock:  minStock,
	}); err != nil {
		logger.Warnw("low_stock_enqueue_failed", "product_id", productID, "error", err)
	}
}
