// Package model содержит доменные сущности витрины магазина игр.
package model

import (
	"fmt"
	"math"
)

// FallbackImage используется, когда у игры нет собственной обложки.
const FallbackImage = "assets/Bloodborne.jpg"

// Game описывает игру из каталога магазина. Цена хранится в сентаво.
type Game struct {
	ID          int64
	Name        string
	Description string
	PriceCents  int64
	Year        int
	ImageURL    string
}

// ImageOrFallback возвращает URL обложки игры либо изображение-заглушку.
func (g Game) ImageOrFallback() string {
	if g.ImageURL == "" {
		return FallbackImage
	}
	return g.ImageURL
}

// CartLine описывает сырую позицию корзины, как её возвращает API магазина.
type CartLine struct {
	GameID   int64
	Quantity int
}

// EnrichedLine описывает позицию корзины, обогащённую данными игры из каталога.
type EnrichedLine struct {
	Game     Game
	Quantity int
}

// SubtotalCents возвращает стоимость позиции в сентаво.
func (l EnrichedLine) SubtotalCents() int64 {
	return l.Game.PriceCents * int64(l.Quantity)
}

// CartView содержит обогащённую корзину и итоговую сумму в сентаво.
type CartView struct {
	Items      []EnrichedLine
	TotalCents int64
}

// CentsFromReais переводит цену из реалов (число с плавающей точкой на проводе) в сентаво.
func CentsFromReais(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FormatBRL форматирует сумму в сентаво как бразильскую валюту: "R$ 59,99".
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, cents/100, cents%100)
}
