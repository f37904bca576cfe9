package converter

// ProductInfoRedisModel: JSON-представление товара в кэше. Цена хранится строкой с двумя знаками.
type ProductInfoRedisModel struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryName string `json:"category_name"`
	Price        string `json:"price"`
	Stock        int    `json:"stock"`
	IsActive     bool   `json:"is_active"`
}
