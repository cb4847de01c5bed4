package records

import (
	"errors"
	"net/http"
	"time"

	"myassistant/dto"
	"myassistant/model"
	"myassistant/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Mapper turns a request body into a record, either fresh or applied on top
// of an existing one.
type Mapper[T services.Record, R any] struct {
	New   func(id string, req R, now time.Time) T
	Apply func(cur T, req R, now time.Time) T
}

// CRUD registers list, create, update and delete for one collection under path.
func CRUD[T services.Record, R any](router gin.IRouter, path string, coll *services.Collection[T], m Mapper[T, R], now func() time.Time) {
	router.GET(path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": coll.All()})
	})

	router.POST(path, func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		item := m.New(uuid.New().String(), req, now())
		if err := coll.Add(c.Request.Context(), item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": item})
	})

	router.PUT(path+"/:id", func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		at := now()
		item, err := coll.Update(c.Request.Context(), c.Param("id"), func(cur T) T {
			return m.Apply(cur, req, at)
		})
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item})
	})

	router.DELETE(path+"/:id", func(c *gin.Context) {
		err := coll.Delete(c.Request.Context(), c.Param("id"))
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	})
}

type Collections struct {
	Transactions *services.Collection[model.Transaction]
	Shopping     *services.Collection[model.ShoppingItem]
	Notes        *services.Collection[model.Note]
	Contacts     *services.Collection[model.Contact]
}

func RecordsController(router gin.IRouter, cols Collections, now func() time.Time) {
	router.GET("/transactions/balance", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"balance": model.Balance(cols.Transactions.All())})
	})
	CRUD(router, "/transactions", cols.Transactions, transactionMapper, now)
	CRUD(router, "/shopping", cols.Shopping, shoppingMapper, now)
	CRUD(router, "/notes", cols.Notes, noteMapper, now)
	CRUD(router, "/contacts", cols.Contacts, contactMapper, now)
}

func orNow(v, layout string, now time.Time) string {
	if v != "" {
		return v
	}
	return now.Format(layout)
}

var transactionMapper = Mapper[model.Transaction, dto.TransactionRequest]{
	New: func(id string, req dto.TransactionRequest, now time.Time) model.Transaction {
		return model.Transaction{
			ID:       id,
			Title:    req.Title,
			Amount:   req.Amount,
			Type:     model.TransactionType(req.Type),
			Category: req.Category,
			Date:     orNow(req.Date, model.DateLayout, now),
			Time:     orNow(req.Time, model.TimeLayout, now),
		}
	},
	Apply: func(cur model.Transaction, req dto.TransactionRequest, _ time.Time) model.Transaction {
		cur.Title = req.Title
		cur.Amount = req.Amount
		cur.Type = model.TransactionType(req.Type)
		cur.Category = req.Category
		if req.Date != "" {
			cur.Date = req.Date
		}
		if req.Time != "" {
			cur.Time = req.Time
		}
		return cur
	},
}

var shoppingMapper = Mapper[model.ShoppingItem, dto.ShoppingItemRequest]{
	New: func(id string, req dto.ShoppingItemRequest, _ time.Time) model.ShoppingItem {
		category := req.Category
		if category == "" {
			category = "Home"
		}
		return model.ShoppingItem{
			ID:        id,
			Name:      req.Name,
			Completed: req.Completed,
			Quantity:  req.Quantity,
			Category:  category,
		}
	},
	Apply: func(cur model.ShoppingItem, req dto.ShoppingItemRequest, _ time.Time) model.ShoppingItem {
		cur.Name = req.Name
		cur.Completed = req.Completed
		cur.Quantity = req.Quantity
		if req.Category != "" {
			cur.Category = req.Category
		}
		return cur
	},
}

var noteMapper = Mapper[model.Note, dto.NoteRequest]{
	New: func(id string, req dto.NoteRequest, now time.Time) model.Note {
		return model.Note{
			ID:        id,
			Title:     req.Title,
			Content:   req.Content,
			IsLocked:  req.IsLocked,
			Date:      now.Format(model.DateLayout),
			UpdatedAt: now.Format(time.RFC3339),
		}
	},
	Apply: func(cur model.Note, req dto.NoteRequest, now time.Time) model.Note {
		cur.Title = req.Title
		cur.Content = req.Content
		cur.IsLocked = req.IsLocked
		cur.UpdatedAt = now.Format(time.RFC3339)
		return cur
	},
}

var contactMapper = Mapper[model.Contact, dto.ContactRequest]{
	New: func(id string, req dto.ContactRequest, _ time.Time) model.Contact {
		return model.Contact{ID: id, Name: req.Name, Phone: req.Phone, Role: req.Role, Note: req.Note}
	},
	Apply: func(cur model.Contact, req dto.ContactRequest, _ time.Time) model.Contact {
		cur.Name = req.Name
		cur.Phone = req.Phone
		cur.Role = req.Role
		cur.Note = req.Note
		return cur
	},
}
