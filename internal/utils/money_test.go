package utils

import (
	"testing"
)

func TestMoneyCreation(t *testing.T) {
	t.Run("NewMoney", func(t *testing.T) {
		m := NewMoney(100, 50)
		if m.ToCents() != 10050 {
			t.Errorf("Expected 10050 cents, got %d", m.ToCents())
		}
	})

	t.Run("Reais", func(t *testing.T) {
		m := Reais(27)
		if m.ToCents() != 2700 {
			t.Errorf("Expected 2700 cents, got %d", m.ToCents())
		}
	})

	t.Run("FromFloat", func(t *testing.T) {
		tests := []struct {
			in   float64
			want int64
		}{
			{123.45, 12345},
			{0.005, 1},
			{-0.005, -1},
			{19.999, 2000},
			{0, 0},
		}
		for _, tt := range tests {
			if got := FromFloat(tt.in).ToCents(); got != tt.want {
				t.Errorf("FromFloat(%v) = %d, want %d", tt.in, got, tt.want)
			}
		}
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("Line total", func(t *testing.T) {
		// (base 20.00 + items 5.00) x 3
		line := Reais(20).Add(Reais(5)).Mul(3)
		if line.ToCents() != 7500 {
			t.Errorf("Expected 7500 cents, got %d", line.ToCents())
		}
	})

	t.Run("MulFloat", func(t *testing.T) {
		m := NewMoney(100, 0)
		result := m.MulFloat(0.15)
		if result.ToCents() != 1500 {
			t.Errorf("Expected 1500 cents, got %d", result.ToCents())
		}
	})

	t.Run("MulFloat rounds half away from zero", func(t *testing.T) {
		// 0.25 * 0.6 = 0.15 exactly in cents -> 15
		if got := Cents(25).MulFloat(0.6).ToCents(); got != 15 {
			t.Errorf("Expected 15 cents, got %d", got)
		}
		// 0.05 * 0.5 = 2.5 cents -> 3
		if got := Cents(5).MulFloat(0.5).ToCents(); got != 3 {
			t.Errorf("Expected 3 cents, got %d", got)
		}
	})

	t.Run("Percentage", func(t *testing.T) {
		m := NewMoney(200, 0)
		result := m.Percentage(10)
		if result.ToCents() != 2000 {
			t.Errorf("Expected 2000 cents, got %d", result.ToCents())
		}
	})

	t.Run("Sum", func(t *testing.T) {
		if got := Sum(Reais(20), Reais(35), Reais(35)); got != Reais(90) {
			t.Errorf("Expected 90.00, got %s", got)
		}
		if got := Sum(); !got.IsZero() {
			t.Errorf("Expected zero, got %s", got)
		}
	})

	t.Run("Sub negative", func(t *testing.T) {
		if !Reais(5).Sub(Reais(6)).IsNegative() {
			t.Error("Expected negative result")
		}
	})
}

func TestMoneyDecimal(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{NewMoney(1234, 56), "1234.56"},
		{Cents(5), "0.05"},
		{Cents(-5075), "-50.75"},
		{Reais(10), "10.00"},
	}
	for _, tt := range tests {
		if got := tt.m.Decimal().StringFixed(2); got != tt.want {
			t.Errorf("Decimal() = %s, want %s", got, tt.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	m := NewMoney(1234, 56)
	if str := m.String(); str != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", str)
	}

	m = Cents(-5075)
	if str := m.String(); str != "-50.75" {
		t.Errorf("Expected '-50.75', got '%s'", str)
	}
}

func TestMoneyFormat(t *testing.T) {
	m := NewMoney(1234567, 89)

	t.Run("BRL", func(t *testing.T) {
		if str := m.Format("BRL"); str != "R$1.234.567,89" {
			t.Errorf("Expected 'R$1.234.567,89', got '%s'", str)
		}
	})

	t.Run("USD", func(t *testing.T) {
		if str := m.Format("USD"); str != "$1,234,567.89" {
			t.Errorf("Expected '$1,234,567.89', got '%s'", str)
		}
	})

	t.Run("Unknown falls back to BRL", func(t *testing.T) {
		if str := Reais(5).Format("XXX"); str != "R$5,00" {
			t.Errorf("Expected 'R$5,00', got '%s'", str)
		}
	})

	t.Run("Negative", func(t *testing.T) {
		if str := Cents(-123456).Format("BRL"); str != "-R$1.234,56" {
			t.Errorf("Expected '-R$1.234,56', got '%s'", str)
		}
	})
}

func TestRandomAmount(t *testing.T) {
	rng := NewRandom(42)

	min := Reais(15)
	max := Reais(120)

	for i := 0; i < 1000; i++ {
		m := RandomAmount(rng, min, max)
		if m < min || m > max {
			t.Errorf("RandomAmount returned %d, expected between %d and %d", m.ToCents(), min.ToCents(), max.ToCents())
		}
	}

	if got := RandomAmount(rng, max, min); got != max {
		t.Errorf("Expected inverted range to return min argument, got %s", got)
	}
}
