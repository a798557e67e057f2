package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// ClientUseCase gestión del fichero de clientes. Los clientes nunca se
// borran; la baja es un archivado.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
	log        *logger.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository, auditRepo repository.AuditRepository, log *logger.Logger) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, auditRepo: auditRepo, log: log}
}

// Create da de alta un cliente. CarryForward distinto de cero solo tiene
// sentido al migrar clientes con saldo previo.
func (uc *ClientUseCase) Create(ctx context.Context, userID, username string, in dto.CreateClientRequest) (*entity.Client, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	client := &entity.Client{
		ID:           uuid.New().String(),
		Code:         in.Code,
		Name:         in.Name,
		Address:      in.Address,
		RC:           in.RC,
		NIS:          in.NIS,
		NIF:          in.NIF,
		TaxArticle:   in.TaxArticle,
		Email:        in.Email,
		Phone1:       in.Phone1,
		Phone2:       in.Phone2,
		BankAccount:  in.BankAccount,
		Bank:         in.Bank,
		Category:     in.Category,
		CreditLimit:  in.CreditLimit,
		CarryForward: in.CarryForward,
		Active:       true,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	_ = uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Action:    "CLIENT_CREATED",
		Details:   client.Code + " " + client.Name,
		EntityRef: client.ID,
		CreatedAt: now,
	})
	return client, nil
}

// Get devuelve un cliente por id.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// List devuelve clientes paginados.
func (uc *ClientUseCase) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Client, error) {
	return uc.clientRepo.List(activeOnly, limit, offset)
}

// Update modifica los datos del cliente. El carry-forward no se toca por esta
// vía; solo el cierre anual lo fija.
func (uc *ClientUseCase) Update(ctx context.Context, userID, username, id string, in dto.UpdateClientRequest) (*entity.Client, error) {
	if in.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	client.Name = in.Name
	client.Address = in.Address
	client.RC = in.RC
	client.NIS = in.NIS
	client.NIF = in.NIF
	client.TaxArticle = in.TaxArticle
	client.Email = in.Email
	client.Phone1 = in.Phone1
	client.Phone2 = in.Phone2
	client.BankAccount = in.BankAccount
	client.Bank = in.Bank
	client.Category = in.Category
	client.CreditLimit = in.CreditLimit
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	_ = uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Action:    "CLIENT_UPDATED",
		Details:   client.Code,
		EntityRef: client.ID,
		CreatedAt: time.Now(),
	})
	return client, nil
}

// Archive da de baja lógica al cliente; su histórico queda intacto.
func (uc *ClientUseCase) Archive(ctx context.Context, userID, username, id string) error {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	if err := uc.clientRepo.Archive(id); err != nil {
		return err
	}
	_ = uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Action:    "CLIENT_ARCHIVED",
		Details:   client.Code,
		EntityRef: id,
		CreatedAt: time.Now(),
	})
	return nil
}
