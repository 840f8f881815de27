package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/trazabilidad-pro/internal/domain"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/entity"
	"github.com/tu-usuario/trazabilidad-pro/internal/domain/repository"
)

const customerCodePrefix = "CLI-"

// CustomerUseCase gestiona la cartera de clientes.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso de clientes.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// CreateCustomerInput entrada para dar de alta un cliente.
// Code vacío = autonumerar CLI-NNNN.
type CreateCustomerInput struct {
	Code    string
	Name    string
	Email   string
	Phone   string
	Address string
}

// CreateCustomer da de alta un cliente con código único.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	code := input.Code
	if code == "" {
		var err error
		code, err = uc.nextCustomerCode()
		if err != nil {
			return nil, err
		}
	} else if _, err := uc.customerRepo.GetByCode(code); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// nextCustomerCode genera el siguiente código CLI-NNNN.
func (uc *CustomerUseCase) nextCustomerCode() (string, error) {
	last, err := uc.customerRepo.LastCodeWithPrefix(customerCodePrefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, customerCodePrefix))
		if err != nil {
			return "", fmt.Errorf("código de cliente no reconocible %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", customerCodePrefix, seq), nil
}

// GetCustomer devuelve un cliente por id.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	return uc.customerRepo.GetByID(id)
}

// ListCustomers lista clientes con búsqueda opcional por código o nombre,
// sin distinguir mayúsculas ni acentos.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, activeOnly bool, search string) ([]*entity.Customer, error) {
	customers, err := uc.customerRepo.List(activeOnly)
	if err != nil {
		return nil, err
	}
	folded := foldAccents(search)
	if folded == "" {
		return customers, nil
	}
	out := make([]*entity.Customer, 0, len(customers))
	for _, c := range customers {
		if matchesSearch(folded, c.Code, c.Name) {
			out = append(out, c)
		}
	}
	return out, nil
}
