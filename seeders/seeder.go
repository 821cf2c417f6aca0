package seeders

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	"itdesk/internal/services"
	"itdesk/pkg/utils"
)

type seedAdmin struct {
	Username string
	Name     string
}

var defaultAdmins = []seedAdmin{
	{Username: "tech1", Name: "Technician One"},
	{Username: "tech2", Name: "Technician Two"},
}

const seedTicketMarker = "Pagination Test"

// SeedAdmins создаёт (или обновляет) техников с общим паролем и возвращает их ID.
func SeedAdmins(ctx context.Context, db *pgxpool.Pool, password string) ([]uint64, error) {
	log.Println("▶️  Наполнение сотрудников...")
	repo := repositories.NewAdminRepository(db, zap.NewNop())

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("не удалось захэшировать пароль: %w", err)
	}

	ids := make([]uint64, 0, len(defaultAdmins))
	for _, a := range defaultAdmins {
		id, err := repo.Upsert(ctx, entities.Admin{
			Username: strings.ToLower(a.Username),
			Name:     a.Name,
			Password: hash,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("  - %s (id=%d)", a.Username, id)
		ids = append(ids, id)
	}
	log.Println("✅ Сотрудники готовы")
	return ids, nil
}

// SeedTickets создаёт 15 тестовых тикетов: чётные назначены на assigneeID.
// Повторный запуск ничего не делает.
func SeedTickets(ctx context.Context, db *pgxpool.Pool, assigneeID uint64) error {
	log.Println("▶️  Наполнение тикетов...")
	repo := repositories.NewTicketRepository(db, zap.NewNop())

	_, total, err := repo.GetTickets(ctx, entities.TicketListFilter{Search: seedTicketMarker, Limit: 1, WithPagination: true})
	if err != nil {
		return err
	}
	if total > 0 {
		log.Printf("  - Уже есть %d тестовых тикетов. Пропускаем.", total)
		return nil
	}

	base := time.Now().Add(-15 * time.Hour)
	for i := 1; i <= 15; i++ {
		t := entities.Ticket{
			Company:     fmt.Sprintf("Company %d", i),
			Person:      fmt.Sprintf("User %d", i),
			Location:    null.StringFrom(fmt.Sprintf("Location %d", i)),
			Issue:       fmt.Sprintf("Issue %d - %s", i, seedTicketMarker),
			StartedTime: base.Add(time.Duration(i) * time.Hour),
		}
		if i%2 == 0 && assigneeID != 0 {
			t.AdminID = null.Uint64From(assigneeID)
		}
		t.Status = services.InitialTicketStatus(t.AdminID)

		if _, err := repo.CreateTicket(ctx, t); err != nil {
			return fmt.Errorf("тикет %d: %w", i, err)
		}
	}
	log.Println("✅ Создано 15 тестовых тикетов")
	return nil
}
