package types

type FeatureFlagFilter struct {
	*QueryFilter
	Keys []string `json:"keys,omitempty" form:"keys"`
}

func NewFeatureFlagFilter() *FeatureFlagFilter {
	return &FeatureFlagFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *FeatureFlagFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}
