package errs

import "errors"

// 业务错误定义。每个错误对应一种前置校验失败，
// 校验失败时整个操作不产生任何写入。
var (
	// 权限类
	ErrUnauthorized = errors.New("unauthorized")

	// 暂停状态类
	ErrEnforcedPause = errors.New("enforced pause")
	ErrExpectedPause = errors.New("expected pause")

	// 输入格式类
	ErrInvalidLogoId         = errors.New("invalid logo id")
	ErrEmptyString           = errors.New("empty string")
	ErrNotZero               = errors.New("value must not be zero")
	ErrZeroAddress           = errors.New("zero address")
	ErrInvalidArrayArguments = errors.New("invalid array arguments")
	ErrInvalidSpeakerNumber  = errors.New("invalid speaker number")
	ErrInvalidSpeakerStatus  = errors.New("invalid speaker status")

	// 时间约束类
	ErrCrowdfundDurationExceeded  = errors.New("crowdfund duration exceeded")
	ErrCrowdfundEnded             = errors.New("crowdfund ended")
	ErrInvalidScheduleTime        = errors.New("invalid schedule time")
	ErrRejectionDeadlinePassed    = errors.New("rejection deadline passed")
	ErrRejectionDeadlineNotPassed = errors.New("rejection deadline not passed")

	// 费率配置类
	ErrFeeExceeded            = errors.New("fee exceeded")
	ErrFeeSumNotMatch         = errors.New("fee sum not match")
	ErrInvalidRejectThreshold = errors.New("invalid reject threshold")
	ErrInvalidMaxDuration     = errors.New("invalid max duration")

	// 状态机约束类
	ErrLogoNotCrowdfunding        = errors.New("logo not crowdfunding")
	ErrLogoUploaded               = errors.New("logo uploaded")
	ErrLogoNotScheduled           = errors.New("logo not scheduled")
	ErrLogoNotUploaded            = errors.New("logo not uploaded")
	ErrLogoDistributed            = errors.New("logo distributed")
	ErrLogoRefunded               = errors.New("logo refunded")
	ErrLogoFundsCannotBeWithdrawn = errors.New("logo funds cannot be withdrawn")

	// 资金类
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrBackerAlreadyRejected = errors.New("backer already rejected")
)

// IsBusiness 判断是否为上述业务错误
func IsBusiness(err error) bool {
	for _, e := range []error{
		ErrUnauthorized,
		ErrEnforcedPause, ErrExpectedPause,
		ErrInvalidLogoId, ErrEmptyString, ErrNotZero, ErrZeroAddress,
		ErrInvalidArrayArguments, ErrInvalidSpeakerNumber, ErrInvalidSpeakerStatus,
		ErrCrowdfundDurationExceeded, ErrCrowdfundEnded, ErrInvalidScheduleTime,
		ErrRejectionDeadlinePassed, ErrRejectionDeadlineNotPassed,
		ErrFeeExceeded, ErrFeeSumNotMatch, ErrInvalidRejectThreshold, ErrInvalidMaxDuration,
		ErrLogoNotCrowdfunding, ErrLogoUploaded, ErrLogoNotScheduled, ErrLogoNotUploaded,
		ErrLogoDistributed, ErrLogoRefunded, ErrLogoFundsCannotBeWithdrawn,
		ErrInsufficientFunds, ErrBackerAlreadyRejected,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
