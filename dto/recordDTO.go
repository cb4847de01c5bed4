package dto

type TransactionRequest struct {
	Title    string  `json:"title" binding:"required"`
	Amount   float64 `json:"amount" binding:"gt=0"`
	Type     string  `json:"type" binding:"required,oneof=income expense"`
	Category string  `json:"category"`
	Date     string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time     string  `json:"time" binding:"omitempty,datetime=15:04"`
}

type ShoppingItemRequest struct {
	Name      string `json:"name" binding:"required"`
	Completed bool   `json:"completed"`
	Quantity  string `json:"quantity"`
	Category  string `json:"category" binding:"omitempty,oneof=Home Work Business"`
}

type NoteRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	IsLocked bool   `json:"isLocked"`
}

type ContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Role  string `json:"role"`
	Note  string `json:"note"`
}
