package service

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/socialdesk/socialdesk/internal/api/dto"
	"github.com/socialdesk/socialdesk/internal/domain/paymentmethod"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/integration/base"
	"github.com/socialdesk/socialdesk/internal/types"
)

// PaymentMethodService keeps exactly one default payment method per tenant with at least one method
type PaymentMethodService interface {
	AddPaymentMethod(ctx context.Context, req dto.AddPaymentMethodRequest) (*dto.PaymentMethodResponse, error)
	ListPaymentMethods(ctx context.Context) ([]*dto.PaymentMethodResponse, error)
	SetDefault(ctx context.Context, id string) (*dto.PaymentMethodResponse, error)
	RemovePaymentMethod(ctx context.Context, id string) error
	// RemoveDetached drops a method the gateway reports as detached, without calling the gateway again
	RemoveDetached(ctx context.Context, gatewayPaymentMethodID string) error
}

type paymentMethodService struct {
	ServiceParams
}

func NewPaymentMethodService(params ServiceParams) PaymentMethodService {
	return &paymentMethodService{ServiceParams: params}
}

func (s *paymentMethodService) AddPaymentMethod(ctx context.Context, req dto.AddPaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	gateway, err := s.Gateways.GetPaymentMethodGateway()
	if err != nil {
		return nil, err
	}

	customerID, err := s.ensureCustomer(ctx, gateway)
	if err != nil {
		return nil, err
	}

	attached, err := gateway.AttachPaymentMethod(ctx, customerID, req.GatewayPaymentMethodID)
	if err != nil {
		return nil, err
	}

	pm := &paymentmethod.PaymentMethod{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD),
		Gateway:                gateway.Name(),
		GatewayPaymentMethodID: attached.ID,
		MethodType:             attached.Type,
		Brand:                  attached.Brand,
		Last4:                  attached.Last4,
		ExpMonth:               attached.ExpMonth,
		ExpYear:                attached.ExpYear,
		BaseModel:              types.GetDefaultBaseModel(ctx),
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		count, err := s.PaymentMethodRepo.Count(ctx, types.NewPaymentMethodFilter())
		if err != nil {
			return err
		}

		pm.IsDefault = req.IsDefault || count == 0
		if pm.IsDefault {
			if err := s.PaymentMethodRepo.UnsetDefault(ctx); err != nil {
				return err
			}
		}
		return s.PaymentMethodRepo.Create(ctx, pm)
	})
	if err != nil {
		if detachErr := gateway.DetachPaymentMethod(ctx, attached.ID); detachErr != nil {
			s.Logger.Errorw("failed to detach payment method after failed save",
				"error", detachErr,
				"gateway_payment_method_id", attached.ID,
			)
		}
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionPaymentMethodAdded, "payment_method", pm.ID, map[string]interface{}{
		"brand":      pm.Brand,
		"last4":      pm.Last4,
		"is_default": pm.IsDefault,
	})

	return &dto.PaymentMethodResponse{PaymentMethod: pm}, nil
}

// ensureCustomer returns the tenant's customer at the gateway, creating it on first use
func (s *paymentMethodService) ensureCustomer(ctx context.Context, gateway base.PaymentMethodGateway) (string, error) {
	if gateway.Name() != s.Config.Billing.Gateway {
		return "", ierr.NewError("payment methods are managed by the billing gateway checkout").
			WithHintf("Payment methods are collected during %s checkout", s.Config.Billing.Gateway).
			WithReportableDetails(map[string]any{
				"billing_gateway":        s.Config.Billing.Gateway,
				"payment_method_gateway": gateway.Name(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	t, err := s.TenantRepo.GetByID(ctx, types.GetTenantID(ctx))
	if err != nil {
		return "", err
	}
	if t.GatewayCustomerID != "" {
		return t.GatewayCustomerID, nil
	}

	customerID, err := gateway.CreateCustomer(ctx, newCustomerRequest(t, gateway.Name()))
	if err != nil {
		return "", err
	}

	t.GatewayCustomerID = customerID
	if err := s.TenantRepo.Update(ctx, t); err != nil {
		return "", err
	}
	return customerID, nil
}

func (s *paymentMethodService) ListPaymentMethods(ctx context.Context) ([]*dto.PaymentMethodResponse, error) {
	methods, err := s.PaymentMethodRepo.List(ctx, types.NewPaymentMethodFilter())
	if err != nil {
		return nil, err
	}
	return lo.Map(methods, func(pm *paymentmethod.PaymentMethod, _ int) *dto.PaymentMethodResponse {
		return &dto.PaymentMethodResponse{PaymentMethod: pm}
	}), nil
}

func (s *paymentMethodService) SetDefault(ctx context.Context, id string) (*dto.PaymentMethodResponse, error) {
	var pm *paymentmethod.PaymentMethod
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		pm, err = s.PaymentMethodRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if pm.IsDefault {
			return nil
		}

		if err := s.PaymentMethodRepo.UnsetDefault(ctx); err != nil {
			return err
		}
		pm.IsDefault = true
		return s.PaymentMethodRepo.Update(ctx, pm)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionPaymentMethodDefaultChanged, "payment_method", pm.ID, nil)
	return &dto.PaymentMethodResponse{PaymentMethod: pm}, nil
}

func (s *paymentMethodService) RemovePaymentMethod(ctx context.Context, id string) error {
	pm, err := s.PaymentMethodRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.PaymentMethodRepo.Count(ctx, types.NewPaymentMethodFilter())
	if err != nil {
		return err
	}
	if count <= 1 {
		return ierr.NewError("cannot remove the only payment method").
			WithHint("Add another payment method before removing this one").
			WithReportableDetails(map[string]any{
				"payment_method_id": pm.ID,
			}).
			Mark(ierr.ErrValidation)
	}

	gateway, err := s.Gateways.GetPaymentMethodGateway()
	if err != nil {
		return err
	}
	if err := s.remove(ctx, pm); err != nil {
		return err
	}

	// detach failures only leave an unused card at the gateway
	if err := gateway.DetachPaymentMethod(ctx, pm.GatewayPaymentMethodID); err != nil {
		s.Logger.Errorw("failed to detach removed payment method",
			"error", err,
			"payment_method_id", pm.ID,
			"gateway_payment_method_id", pm.GatewayPaymentMethodID,
		)
	}
	return nil
}

func (s *paymentMethodService) RemoveDetached(ctx context.Context, gatewayPaymentMethodID string) error {
	filter := types.NewPaymentMethodFilter()
	filter.GatewayPaymentMethodID = gatewayPaymentMethodID
	methods, err := s.PaymentMethodRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(methods) == 0 {
		s.Logger.Debugw("detached payment method not found", "gateway_payment_method_id", gatewayPaymentMethodID)
		return nil
	}
	return s.remove(ctx, methods[0])
}

// remove deletes pm and promotes the most recently added remaining method when pm was the default
func (s *paymentMethodService) remove(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	var promoted *paymentmethod.PaymentMethod
	wasDefault := pm.IsDefault
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.PaymentMethodRepo.Delete(ctx, pm.ID); err != nil {
			return err
		}
		if !wasDefault {
			return nil
		}

		remaining, err := s.PaymentMethodRepo.List(ctx, types.NewPaymentMethodFilter())
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}

		sort.SliceStable(remaining, func(i, j int) bool {
			return remaining[i].CreatedAt.After(remaining[j].CreatedAt)
		})
		promoted = remaining[0]
		if err := s.PaymentMethodRepo.UnsetDefault(ctx); err != nil {
			return err
		}
		promoted.IsDefault = true
		return s.PaymentMethodRepo.Update(ctx, promoted)
	})
	if err != nil {
		return err
	}

	recordAudit(ctx, s.ServiceParams, types.AuditActionPaymentMethodRemoved, "payment_method", pm.ID, map[string]interface{}{
		"was_default": wasDefault,
	})
	if promoted != nil {
		recordAudit(ctx, s.ServiceParams, types.AuditActionPaymentMethodDefaultChanged, "payment_method", promoted.ID, map[string]interface{}{
			"reason": "default_removed",
		})
	}
	return nil
}
