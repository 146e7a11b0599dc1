package driven

import (
	port "github.com/gatewayz/rum-server/internal/port/driven"
)

// Compile-time check that SampleBoltDBRepository implements SampleRepository interface
var _ port.SampleRepository = (*SampleBoltDBRepository)(nil)
