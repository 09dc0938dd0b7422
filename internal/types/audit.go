package types

// AuditAction names a recorded action, formatted as <entity>.<verb>
type AuditAction string

const (
	AuditActionTenantUpdated               AuditAction = "tenant.updated"
	AuditActionTenantSuspended             AuditAction = "tenant.suspended"
	AuditActionTenantReactivated           AuditAction = "tenant.reactivated"
	AuditActionUserInvited                 AuditAction = "user.invited"
	AuditActionUserRoleChanged             AuditAction = "user.role_changed"
	AuditActionUserRemoved                 AuditAction = "user.removed"
	AuditActionWorkspaceCreated            AuditAction = "workspace.created"
	AuditActionWorkspaceUpdated            AuditAction = "workspace.updated"
	AuditActionWorkspaceDeleted            AuditAction = "workspace.deleted"
	AuditActionTeamMemberAdded             AuditAction = "team.member_added"
	AuditActionTeamMemberRemoved           AuditAction = "team.member_removed"
	AuditActionSubscriptionCreated         AuditAction = "subscription.created"
	AuditActionSubscriptionActivated       AuditAction = "subscription.activated"
	AuditActionSubscriptionCancelled       AuditAction = "subscription.cancelled"
	AuditActionSubscriptionReactivated     AuditAction = "subscription.reactivated"
	AuditActionSubscriptionPlanChanged     AuditAction = "subscription.plan_changed"
	AuditActionInvoiceIssued               AuditAction = "invoice.issued"
	AuditActionInvoicePaid                 AuditAction = "invoice.paid"
	AuditActionInvoiceVoided               AuditAction = "invoice.voided"
	AuditActionPaymentMethodAdded          AuditAction = "payment_method.added"
	AuditActionPaymentMethodDefaultChanged AuditAction = "payment_method.default_changed"
	AuditActionPaymentMethodRemoved        AuditAction = "payment_method.removed"
	AuditActionFeatureFlagChanged          AuditAction = "feature_flag.changed"
	AuditActionPlanChanged                 AuditAction = "plan.changed"
)

type AuditLogFilter struct {
	*QueryFilter
	*TimeRangeFilter
	Actions    []AuditAction `json:"actions,omitempty" form:"actions"`
	EntityType string        `json:"entity_type,omitempty" form:"entity_type"`
	EntityID   string        `json:"entity_id,omitempty" form:"entity_id"`
	UserID     string        `json:"user_id,omitempty" form:"user_id"`
	AllTenants bool          `json:"-" form:"-"`
}

func NewAuditLogFilter() *AuditLogFilter {
	return &AuditLogFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *AuditLogFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	return f.TimeRangeFilter.Validate()
}
