// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package amberscript

// knownDeviceFeatures is the closed vocabulary accepted by DEVICE_FEATURE:
// the VkPhysicalDeviceFeatures members, plus the handful of extension
// feature-struct fields exercised by real scripts, addressed as
// "StructName.fieldName".
var knownDeviceFeatures = map[string]bool{
	"robustBufferAccess":                      true,
	"fullDrawIndexUint32":                     true,
	"imageCubeArray":                          true,
	"independentBlend":                        true,
	"geometryShader":                          true,
	"tessellationShader":                      true,
	"sampleRateShading":                       true,
	"dualSrcBlend":                            true,
	"logicOp":                                 true,
	"multiDrawIndirect":                       true,
	"drawIndirectFirstInstance":               true,
	"depthClamp":                              true,
	"depthBiasClamp":                          true,
	"fillModeNonSolid":                        true,
	"depthBounds":                             true,
	"wideLines":                               true,
	"largePoints":                             true,
	"alphaToOne":                              true,
	"multiViewport":                           true,
	"samplerAnisotropy":                       true,
	"textureCompressionETC2":                  true,
	"textureCompressionASTC_LDR":              true,
	"textureCompressionBC":                    true,
	"occlusionQueryPrecise":                   true,
	"pipelineStatisticsQuery":                 true,
	"vertexPipelineStoresAndAtomics":          true,
	"fragmentStoresAndAtomics":                true,
	"shaderTessellationAndGeometryPointSize":  true,
	"shaderImageGatherExtended":               true,
	"shaderStorageImageExtendedFormats":       true,
	"shaderStorageImageMultisample":           true,
	"shaderStorageImageReadWithoutFormat":     true,
	"shaderStorageImageWriteWithoutFormat":    true,
	"shaderUniformBufferArrayDynamicIndexing": true,
	"shaderSampledImageArrayDynamicIndexing":  true,
	"shaderStorageBufferArrayDynamicIndexing": true,
	"shaderStorageImageArrayDynamicIndexing":  true,
	"shaderClipDistance":                      true,
	"shaderCullDistance":                      true,
	"shaderFloat64":                           true,
	"shaderInt64":                             true,
	"shaderInt16":                             true,
	"shaderResourceResidency":                 true,
	"shaderResourceMinLod":                    true,
	"sparseBinding":                           true,
	"sparseResidencyBuffer":                   true,
	"sparseResidencyImage2D":                  true,
	"sparseResidencyImage3D":                  true,
	"sparseResidency2Samples":                 true,
	"sparseResidency4Samples":                 true,
	"sparseResidency8Samples":                 true,
	"sparseResidency16Samples":                true,
	"sparseResidencyAliased":                  true,
	"variableMultisampleRate":                 true,
	"inheritedQueries":                        true,

	"VariablePointerFeatures.variablePointersStorageBuffer": true,
	"VariablePointerFeatures.variablePointers":               true,
	"Float16Int8Features.shaderFloat16":                      true,
	"Float16Int8Features.shaderInt8":                         true,
	"Storage8BitFeatures.storageBuffer8BitAccess":             true,
	"Storage16BitFeatures.storageBuffer16BitAccess":           true,
}

// knownDeviceProperties is the closed vocabulary accepted by
// DEVICE_PROPERTY, addressed as "StructName.fieldName".
var knownDeviceProperties = map[string]bool{
	"FloatControlsProperties.shaderSignedZeroInfNanPreserveFloat16": true,
	"FloatControlsProperties.shaderSignedZeroInfNanPreserveFloat32": true,
	"FloatControlsProperties.shaderSignedZeroInfNanPreserveFloat64": true,
	"FloatControlsProperties.shaderDenormPreserveFloat16":           true,
	"FloatControlsProperties.shaderDenormPreserveFloat32":           true,
	"FloatControlsProperties.shaderDenormPreserveFloat64":           true,
	"FloatControlsProperties.shaderDenormFlushToZeroFloat16":        true,
	"FloatControlsProperties.shaderDenormFlushToZeroFloat32":        true,
	"FloatControlsProperties.shaderDenormFlushToZeroFloat64":        true,
	"FloatControlsProperties.shaderRoundingModeRTEFloat16":          true,
	"FloatControlsProperties.shaderRoundingModeRTEFloat32":          true,
	"FloatControlsProperties.shaderRoundingModeRTEFloat64":          true,
	"FloatControlsProperties.shaderRoundingModeRTZFloat16":          true,
	"FloatControlsProperties.shaderRoundingModeRTZFloat32":          true,
	"FloatControlsProperties.shaderRoundingModeRTZFloat64":          true,
}
