package mock

//go:generate mockgen -destination=target.go -package=mock github.com/finnishtransportagency/raita-sub002/target Target,UploadAPI
//go:generate mockgen -destination=source.go -package=mock github.com/finnishtransportagency/raita-sub002/source ObjectAPI
//go:generate mockgen -destination=telemetry.go -package=mock github.com/finnishtransportagency/raita-sub002/telemetry EventsAPI
