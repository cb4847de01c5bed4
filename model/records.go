package model

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type Transaction struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   float64         `json:"amount"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
}

func (t Transaction) GetID() string { return t.ID }

// Balance is total income minus total expense.
func Balance(txs []Transaction) float64 {
	var balance float64
	for _, t := range txs {
		switch t.Type {
		case TransactionIncome:
			balance += t.Amount
		case TransactionExpense:
			balance -= t.Amount
		}
	}
	return balance
}

type ShoppingItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Quantity  string `json:"quantity,omitempty"`
	Category  string `json:"category"` // Home, Work or Business
}

func (s ShoppingItem) GetID() string { return s.ID }

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsLocked  bool   `json:"isLocked"`
	Date      string `json:"date"`
	UpdatedAt string `json:"updatedAt"`
}

func (n Note) GetID() string { return n.ID }

type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
	Note  string `json:"note,omitempty"`
}

func (c Contact) GetID() string { return c.ID }
