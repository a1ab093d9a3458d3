package service

import "errors"

// 业务哨兵错误，handler 层据此映射 HTTP 状态码
var (
	ErrNotFound           = errors.New("资源不存在")
	ErrSlugExists         = errors.New("slug 已存在")
	ErrEmailExists        = errors.New("邮箱已注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserDisabled       = errors.New("账号已禁用")
	ErrInvalidPassword    = errors.New("原密码错误")
	ErrPasswordTooShort   = errors.New("密码长度不足")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrPermissionDenied   = errors.New("无权访问")

	ErrCategoryInUse     = errors.New("分类下存在商品，无法删除")
	ErrCategoryCycle     = errors.New("分类层级存在循环")
	ErrProductInactive   = errors.New("商品已下架")
	ErrInsufficientStock = errors.New("库存不足")
	ErrInvalidPrice      = errors.New("价格或折扣超出允许范围")

	ErrCartEmpty         = errors.New("购物车为空")
	ErrInvalidQuantity   = errors.New("数量不合法")
	ErrCartItemNotFound  = errors.New("购物车中无此商品")
	ErrCartOwnerRequired = errors.New("缺少购物车所有者标识")

	ErrInvalidOrderItem      = errors.New("订单明细不合法")
	ErrOrderStatusInvalid    = errors.New("订单状态不合法")
	ErrOrderTransitionDenied = errors.New("订单状态不允许该变更")
	ErrOrderTerminal         = errors.New("订单已终态")

	ErrInvalidRating        = errors.New("评分必须在 1-5 之间")
	ErrReviewExists         = errors.New("已评价过该商品")
	ErrInvalidMovementType  = errors.New("库存流水类型不合法")
	ErrStockWouldGoNegative = errors.New("调整后库存不能为负")

	ErrCaptchaRequired  = errors.New("需要验证码")
	ErrCaptchaInvalid   = errors.New("验证码错误")
	ErrQueueUnavailable = errors.New("队列服务不可用")
)
