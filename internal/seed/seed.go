package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ProductSeed yaml 格式的商品資料，price 以字串表示避免浮點誤差
type ProductSeed struct {
	ProductID   string `yaml:"product_id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	WeightGrams int64  `yaml:"weight_grams"`
	// Active 未填時視為上架
	Active *bool `yaml:"active"`
}

type catalogFile struct {
	Products []ProductSeed `yaml:"products"`
}

func LoadProductsFile(path string) ([]model.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadProducts(f)
}

func LoadProducts(r io.Reader) ([]model.Product, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Product{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]model.Product, 0, len(file.Products))
	for i, s := range file.Products {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return nil, fmt.Errorf("product[%d] %q: invalid price %q: %w", i, s.ProductID, s.Price, err)
		}
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		products = append(products, model.Product{
			ProductID:   s.ProductID,
			Name:        s.Name,
			Price:       price,
			Stock:       s.Stock,
			WeightGrams: s.WeightGrams,
			IsActive:    active,
		})
	}
	return products, nil
}
