package hibernator

import "github.com/viant/hibernator/tracing"

func initTracing(output string) error {
	return tracing.Init(serviceName, serviceVersion, output)
}
