// Package factory provides a small generic registry used to instantiate
// named types from maps of named constructor arguments. Each registered
// type carries an ordered parameter table; Build resolves the positional
// argument list by matching parameter names against the argument map,
// falling back to declared defaults, and hands it to the registered builder
// function.
//
// Example usage:
//
//	reg := factory.NewRegistry[io.Reader]()
//	_ = reg.Register("file",
//	    []factory.Param{factory.Required("path")},
//	    func(args []any) (io.Reader, error) {
//	        return os.Open(args[0].(string))
//	    })
//	r, err := reg.Build("file", map[string]any{"path": "foo"})
package factory
