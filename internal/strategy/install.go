package strategy

// InstallName is the tag of the install-only strategy.
const InstallName = "install"

// InstallStrategy installs releases and has no promotion step.
type InstallStrategy struct {
	Base
}

// NewInstallStrategy wraps base.
func NewInstallStrategy(base Base) (*InstallStrategy, error) {
	if err := base.validate(); err != nil {
		return nil, err
	}
	return &InstallStrategy{Base: base}, nil
}

func (s *InstallStrategy) Name() string { return InstallName }
