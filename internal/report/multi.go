package report

import "github.com/cwbudde/sgafit/internal/sga"

// multi fans snapshots out to several observers in order.
type multi []sga.Observer

// Multi returns an observer that forwards to every non-nil observer and
// stops at the first error.
func Multi(observers ...sga.Observer) sga.Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) Initial(snap sga.Snapshot) error {
	for _, o := range m {
		if err := o.Initial(snap); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Generation(snap sga.Snapshot) error {
	for _, o := range m {
		if err := o.Generation(snap); err != nil {
			return err
		}
	}
	return nil
}
