package notifx

// SendOptions holds optional configuration for a send operation.
type SendOptions struct {
	Tags             map[string]string
	ConfigurationSet string
}

// Option is a functional option for send operations.
type Option func(*SendOptions)

// WithTags attaches provider message tags (SES message tags).
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) {
		if o.Tags == nil {
			o.Tags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			o.Tags[k] = v
		}
	}
}

// WithConfigurationSet selects a provider configuration set.
func WithConfigurationSet(name string) Option {
	return func(o *SendOptions) {
		o.ConfigurationSet = name
	}
}

// ApplyOptions folds opts into a SendOptions value. Providers call it.
func ApplyOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
